package staticmap

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar reports tile downloads on a terminal. The bar is created on the
// first update, once the number of tiles is known.
type ProgressBar struct {
	W io.Writer // defaults to os.Stderr

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{W: w}
}

// Update matches the signature expected by WithProgress.
func (b *ProgressBar) Update(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		w := b.W
		if w == nil {
			w = os.Stderr
		}
		theme := progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}
		b.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetTheme(theme),
			progressbar.OptionSetDescription("[tiles] download"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	}
	_ = b.bar.Set(done)
	if done >= total {
		_ = b.bar.Finish()
	}
}
