package screens

import (
	"fmt"
	"io"
)

// Presenter binds an ordered row slice to a writer. Purely mechanical:
// whatever order and text the controller hands over is what renders.
type Presenter struct {
	w     io.Writer
	title string
}

func NewPresenter(w io.Writer, title string) *Presenter {
	return &Presenter{
		w:     w,
		title: title,
	}
}

func (p *Presenter) Render(rows []string) {
	fmt.Fprintf(p.w, "%s\n", p.title)
	if len(rows) == 0 {
		fmt.Fprintln(p.w, "  (empty)")
		return
	}

	for i, row := range rows {
		fmt.Fprintf(p.w, "  %d. %s\n", i+1, row)
	}
}
