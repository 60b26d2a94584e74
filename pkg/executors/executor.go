package executors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/berrnk/bdz1/pkg/service"
)

type Executor struct {
	logger *log.Logger
	ledger *service.Ledger
	out    io.Writer
}

func New(logger *log.Logger, ledger *service.Ledger) *Executor {
	return &Executor{
		logger: logger,
		ledger: ledger,
		out:    os.Stdout,
	}
}

// SetOutput redirects previews and summaries, stdout by default.
func (e *Executor) SetOutput(w io.Writer) { e.out = w }
