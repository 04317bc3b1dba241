package runner

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"
)

type inputResult struct {
	text string
	err  error
}

// linePump reads lines in the background so callers can honor ctx while a
// read is blocked.
type linePump struct {
	reader *bufio.Reader
	ch     chan inputResult
	once   sync.Once
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{reader: bufio.NewReader(r)}
}

func (p *linePump) start() {
	p.once.Do(func() {
		p.ch = make(chan inputResult)
		go p.run()
	})
}

func (p *linePump) run() {
	for {
		text, err := p.reader.ReadString('\n')
		if text != "" {
			p.ch <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(p.ch)
				return
			}
			p.ch <- inputResult{err: err}
			// Back off so a persistent read error does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// next returns the next line, io.EOF once the input is exhausted, or the
// ctx error.
func (p *linePump) next(ctx context.Context) (string, error) {
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.ch:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
