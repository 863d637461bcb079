package btree

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	debugInternalColor = color.New(color.FgCyan, color.Bold)
	debugLeafColor     = color.New(color.FgGreen)
)

// Debug writes a human-readable, indented dump of the tree to w, one
// line per node, colorized by kind (spec.md §4.3). It exists purely
// for eyeballing a tree during development; it is not a persistence
// format and nothing in this package reads it back.
func (t *Tree[K, V]) Debug(w io.Writer) Step[Unit] {
	return t.debugAt(w, t.RootOffset, 0)
}

func (t *Tree[K, V]) debugAt(w io.Writer, offset int64, depth int) Step[Unit] {
	return andThen(t.readNode(offset), func(n nodeView[K, V]) Step[Unit] {
		count := n.numVals()
		leaf := n.isLeaf()

		keys := make([]string, count)
		for i := 0; i < count; i++ {
			keys[i] = t.Keys.Debug(n.key(i))
		}
		debugPrintNode(w, depth, offset, leaf, keys)

		if leaf {
			return Done(Unit{})
		}

		children := make([]int64, count+1)
		for i := 0; i <= count; i++ {
			children[i] = n.child(i)
		}
		return t.debugChildren(w, children, 0, depth+1)
	})
}

func (t *Tree[K, V]) debugChildren(w io.Writer, children []int64, idx, depth int) Step[Unit] {
	if idx >= len(children) {
		return Done(Unit{})
	}
	return andThen(t.debugAt(w, children[idx], depth), func(_ Unit) Step[Unit] {
		return t.debugChildren(w, children, idx+1, depth)
	})
}

func debugPrintNode(w io.Writer, depth int, offset int64, leaf bool, keys []string) {
	indent := strings.Repeat("  ", depth)
	kind := debugInternalColor.Sprint("internal")
	if leaf {
		kind = debugLeafColor.Sprint("leaf")
	}
	fmt.Fprintf(w, "%s%s @%d keys=[%s]\n", indent, kind, offset, strings.Join(keys, " "))
}
