// Package stats reports import progress once per second.
package stats

import (
	"time"

	"github.com/osmflex/osmflex/log"
)

type counts struct {
	coords     int64
	nodes      int64
	ways       int64
	rows       int64
	lastReport time.Time
	lastCoords int64
	lastNodes  int64
	lastWays   int64
	lastRows   int64
}

// Progress aggregates counters from multiple goroutines without locks.
type Progress struct {
	coords chan int
	nodes  chan int
	ways   chan int
	rows   chan int
	done   chan struct{}
}

func (p *Progress) AddCoords(n int) { p.coords <- n }
func (p *Progress) AddNodes(n int)  { p.nodes <- n }
func (p *Progress) AddWays(n int)   { p.ways <- n }
func (p *Progress) AddRows(n int)   { p.rows <- n }

// Stop prints the final counts and shuts the reporter down.
func (p *Progress) Stop() {
	p.done <- struct{}{}
	<-p.done
}

func NewProgress() *Progress {
	p := &Progress{
		coords: make(chan int),
		nodes:  make(chan int),
		ways:   make(chan int),
		rows:   make(chan int),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Progress) loop() {
	c := counts{lastReport: time.Now()}
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case n := <-p.coords:
			c.coords += int64(n)
		case n := <-p.nodes:
			c.nodes += int64(n)
		case n := <-p.ways:
			c.ways += int64(n)
		case n := <-p.rows:
			c.rows += int64(n)
		case <-tick.C:
			c.print()
		case <-p.done:
			c.print()
			close(p.done)
			return
		}
	}
}

func (c *counts) print() {
	dur := time.Since(c.lastReport).Seconds()
	if dur <= 0 {
		return
	}
	log.Printf("[progress] coords: %d/s (%d) nodes: %d/s (%d) ways: %d/s (%d) rows: %d/s (%d)",
		int64(float64(c.coords-c.lastCoords)/dur),
		c.coords,
		int64(float64(c.nodes-c.lastNodes)/dur),
		c.nodes,
		int64(float64(c.ways-c.lastWays)/dur),
		c.ways,
		int64(float64(c.rows-c.lastRows)/dur),
		c.rows,
	)
	c.lastCoords = c.coords
	c.lastNodes = c.nodes
	c.lastWays = c.ways
	c.lastRows = c.rows
	c.lastReport = time.Now()
}
