package tracer

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/sampling"
)

// Speed estimate reported by CPU tracers.
const cpuSpeed = 1

type cpuTracer struct {
	logger log.Logger

	sync.Mutex

	id string

	frameW, frameH uint32
	accum          []float32
	pixelFn        PixelFunc

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for the last rendered block.
	stats *Stats
}

// Create a tracer that evaluates blocks on a dedicated goroutine.
func NewCPUTracer(id string) Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan BlockRequest, 1),
		stats:        &Stats{},
	}
}

func (tr *cpuTracer) Id() string {
	return tr.id
}

func (tr *cpuTracer) Speed() uint32 {
	return cpuSpeed
}

// Initialize tracer and start its worker.
func (tr *cpuTracer) Init(frameW, frameH uint32, accum []float32, fn PixelFunc) error {
	tr.Lock()
	defer tr.Unlock()

	if uint64(len(accum)) != uint64(frameW)*uint64(frameH)*3 {
		return ErrInvalidBuffer
	}
	tr.frameW, tr.frameH = frameW, frameH
	tr.accum = accum
	tr.pixelFn = fn

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	go func() {
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				start := time.Now()
				if err := tr.process(blockReq); err != nil {
					tr.logger.Errorf("failed to process block at row %d: %v", blockReq.BlockY, err)
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(start)
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close request and exit
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()
}

// Evaluate all pixels in the block and add their averaged value to the
// accumulation buffer.
func (tr *cpuTracer) process(blockReq BlockRequest) error {
	if tr.pixelFn == nil {
		return ErrNotInitialized
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return fmt.Errorf("%w: rows [%d, %d) of %d", ErrBlockOutOfRange, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.frameH)
	}

	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	scale := 1 / float32(spp)

	rng := sampling.NewRng(blockReq.Seed + int64(blockReq.BlockY))
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		for x := uint32(0); x < tr.frameW; x++ {
			offset := 3 * (y*tr.frameW + x)
			for s := uint32(0); s < spp; s++ {
				v := tr.pixelFn(rng, x, y).Mul(scale)
				tr.accum[offset] += v[0]
				tr.accum[offset+1] += v[1]
				tr.accum[offset+2] += v[2]
			}
		}
	}
	return nil
}
