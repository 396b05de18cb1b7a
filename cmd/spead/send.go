package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	spead "github.com/ska-spead/spead-go"
	"github.com/ska-spead/spead-go/bitcodec"
	"github.com/ska-spead/spead-go/descriptor"
	"github.com/ska-spead/spead-go/format"
	"github.com/ska-spead/spead-go/transport"
	"github.com/ska-spead/spead-go/wire"
)

var (
	sendAddr     string
	sendHeaps    int
	sendInterval time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a demo SPEAD stream to a UDP address",
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendAddr, "addr", "127.0.0.1:8888", "destination UDP address")
	sendCmd.Flags().IntVar(&sendHeaps, "heaps", 10, "number of heaps to send")
	sendCmd.Flags().DurationVar(&sendInterval, "interval", 100*time.Millisecond, "delay between heaps")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := wireConfig()
	if err != nil {
		return err
	}

	sink, err := transport.NewUDPSink(sendAddr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", sendAddr, err)
	}
	defer sink.Close()

	g := spead.NewItemGroup(cfg)

	counter := g.Add(descriptor.Descriptor{
		ID:     0x1000,
		Name:   "counter",
		Format: format.Format{format.Unsigned(32)},
		Shape:  format.NewFixedShape(),
	})

	timestamp := g.Add(descriptor.Descriptor{
		ID:     0x1001,
		Name:   "timestamp",
		Format: format.Format{format.Unsigned(64)},
		Shape:  format.NewFixedShape(),
	})

	tx := spead.NewTransmitter(cfg, sink, wire.MaxPacketLen)

	log.WithField("addr", sendAddr).WithField("heaps", sendHeaps).Info("spead: sending")

	for i := 0; i < sendHeaps; i++ {
		if err := counter.SetRows([]bitcodec.Row{{uint64(i)}}); err != nil {
			return err
		}
		if err := timestamp.SetRows([]bitcodec.Row{{uint64(time.Now().UnixNano())}}); err != nil {
			return err
		}

		if err := tx.Send(g); err != nil {
			return fmt.Errorf("heap %d: %w", i, err)
		}

		log.WithField("heap_cnt", g.HeapCnt()-1).Debug("spead: sent heap")
		time.Sleep(sendInterval)
	}

	return tx.End()
}
