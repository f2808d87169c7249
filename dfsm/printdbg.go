package dfsm

import (
	"fmt"
	"io"
)

// PrintDbg dumps every node in the machine's arena, one line per node,
// listing its outgoing transitions and accept record if any. Node 0 is
// never printed since it is the reserved null index, not a real node.
func (m *Machine[V, T]) PrintDbg(w io.Writer) {
	n := m.store.Size()
	for idx := 1; idx <= n; idx++ {
		node := m.store.Get(idx)
		fmt.Fprintf(w, "node %d:\n", idx)
		for k, v := range node.Transitions() {
			fmt.Fprintf(w, "  %v -> %d\n", k, v)
		}
		if d := node.Default(); d != 0 {
			fmt.Fprintf(w, "  default -> %d\n", d)
		}
		if e := node.Eof(); e != 0 {
			fmt.Fprintf(w, "  eof -> %d\n", e)
		}
		if v := node.Value(); v != nil {
			fmt.Fprintf(w, "  accept (back_by=%d): %+v\n", node.BackBy(), *v)
		} else if node.IsAccept() {
			fmt.Fprintf(w, "  accept (back_by=%d): <no value>\n", node.BackBy())
		}
	}
}
