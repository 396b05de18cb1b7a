package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	spead "github.com/ska-spead/spead-go"
	"github.com/ska-spead/spead-go/group"
	"github.com/ska-spead/spead-go/heap"
	"github.com/ska-spead/spead-go/internal/trace"
	"github.com/ska-spead/spead-go/mux"
	"github.com/ska-spead/spead-go/transport"
)

var (
	recvAddr      string
	recvMaxHeaps  int
	recvQueueSize int
)

var recvCmd = &cobra.Command{
	Use:   "recv",
	Short: "Listen for a SPEAD stream on a UDP address and print each heap",
	RunE:  runRecv,
}

func init() {
	recvCmd.Flags().StringVar(&recvAddr, "addr", "127.0.0.1:8888", "listen address")
	recvCmd.Flags().IntVar(&recvMaxHeaps, "max-concurrent-heaps", 16, "bound on in-flight heaps")
	recvCmd.Flags().IntVar(&recvQueueSize, "queue-size", 256, "bound on unconsumed datagrams")
}

func runRecv(cmd *cobra.Command, args []string) error {
	cfg, err := wireConfig()
	if err != nil {
		return err
	}

	src, err := transport.NewUDPSource(recvAddr, recvQueueSize)
	if err != nil {
		return fmt.Errorf("listen %s: %w", recvAddr, err)
	}
	defer src.Close()

	g := spead.NewItemGroup(cfg)
	rx := spead.NewReceiver(cfg, src,
		mux.WithMaxConcurrentHeaps(recvMaxHeaps),
		mux.WithTraceSink(trace.NewLogrusSink(log)))

	log.WithField("addr", recvAddr).Info("spead: listening")

	for h := range rx.Heaps(cmd.Context()) {
		if !h.Valid {
			log.WithField("heap_cnt", h.HeapCnt).Warn("spead: dropping invalid heap")
			continue
		}

		if err := g.ApplyHeap(h); err != nil {
			log.WithField("heap_cnt", h.HeapCnt).WithError(err).Warn("spead: failed to apply heap")
			continue
		}

		printHeap(g, h)
	}

	return nil
}

func printHeap(g *group.ItemGroup, h *heap.Heap) {
	entry := log.WithField("heap_cnt", h.HeapCnt)

	if len(h.Descriptors) > 0 {
		entry.WithField("new_descriptors", len(h.Descriptors)).Info("spead: heap carried new descriptors")
	}

	for id := range h.Immediates {
		logItemValue(entry, g, id)
	}
	for id := range h.Directs {
		logItemValue(entry, g, id)
	}
}

func logItemValue(entry *logrus.Entry, g *group.ItemGroup, id uint32) {
	it, ok := g.Item(id)
	if !ok {
		return
	}

	if it.Descriptor.Dtype != "" {
		entry.WithField("item", it.Descriptor.Name).WithField("dense_len", len(it.Dense())).Info("spead: item")
		return
	}

	entry.WithField("item", it.Descriptor.Name).WithField("rows", it.Rows()).Info("spead: item")
}
