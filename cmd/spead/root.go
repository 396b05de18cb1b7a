package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ska-spead/spead-go/wire"
)

var (
	addrBits int
	logLevel string
	log      = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "spead",
	Short: "Send and receive SPEAD streams over UDP",
	Long: `spead is a reference command-line sender and receiver for the SPEAD
streaming protocol (Streaming Protocol for Exchanging Astronomical Data).

It exists to smoke-test a stream end to end: send emits synthetic heaps of
a handful of demo items to a UDP address, recv listens and prints every
heap and item value it reassembles.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&addrBits, "addr-bits", 48, "ADDR_BITS dialect (40 or 48)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(recvCmd)
}

func wireConfig() (wire.Config, error) {
	return wire.NewConfig(addrBits)
}
