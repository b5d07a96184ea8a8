// pattern: Functional Core

package assettree

import (
	"fmt"
	"io"
	"strings"
)

// Render writes roots as an indented outline, two spaces per level.
func Render(w io.Writer, roots []*Element, opt DisplayOption, icons bool) error {
	for _, r := range roots {
		var err error
		r.Walk(func(e *Element, depth int) bool {
			if err != nil {
				return false
			}
			label := e.DisplayName(opt)
			if icons && e.Icon != "" {
				label = e.Icon + " " + label
			}
			_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
