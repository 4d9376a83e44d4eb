// core/tree/newick.go
package tree

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Bipartition is the set of leaf labels on one side of an internal edge.
type Bipartition struct {
	Labels []string
}

// Key is the canonical identity of a bipartition: its sorted label set.
func (b Bipartition) Key() string {
	sorted := append([]string(nil), b.Labels...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// Parser states for the bracket-text state machine.
type parseState int

const (
	stateBetween parseState = iota // expecting a label, '(' or separator
	stateLabel                     // accumulating a leaf label
	stateBranch                    // skipping a branch length (or support value)
)

// walk runs the character state machine over bracket text. Every '(' pushes
// a label group; every ')' pops the group, reports it through onClose, and
// merges its labels into the parent. onClose fires after the ')' has been
// consumed, so writers mirroring the input have already emitted it.
// Text between a ')' and the next separator (support or branch length) is
// skipped, not treated as a leaf.
func walk(text string, onLeaf func(label string), onClose func(labels []string)) ([]string, error) {
	var stack [][]string
	var label strings.Builder
	state := stateBetween
	afterClose := false
	depth := 0

	finishLabel := func() {
		if label.Len() == 0 {
			return
		}
		l := label.String()
		label.Reset()
		if onLeaf != nil {
			onLeaf(l)
		}
		if len(stack) == 0 {
			stack = append(stack, []string{l})
		} else {
			stack[len(stack)-1] = append(stack[len(stack)-1], l)
		}
	}

	for _, c := range text {
		switch c {
		case '(':
			if state == stateBranch {
				return nil, errors.New("bracket parse: '(' inside a branch length")
			}
			stack = append(stack, nil)
			depth++
			state = stateBetween
			afterClose = false
		case ')':
			if !afterClose {
				finishLabel()
			}
			depth--
			if depth < 0 || len(stack) == 0 {
				return nil, errors.New("bracket parse: unbalanced ')'")
			}
			clade := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if onClose != nil {
				onClose(clade)
			}
			if len(stack) == 0 {
				stack = append(stack, clade)
			} else {
				stack[len(stack)-1] = append(stack[len(stack)-1], clade...)
			}
			state = stateBetween
			afterClose = true
		case ',':
			if !afterClose {
				finishLabel()
			}
			state = stateBetween
			afterClose = false
		case ':':
			if !afterClose {
				finishLabel()
			}
			state = stateBranch
			afterClose = false
		case ';':
			if !afterClose {
				finishLabel()
			}
			state = stateBetween
		default:
			switch state {
			case stateBranch:
				// branch length characters, skipped
			default:
				if afterClose {
					// internal node label / support value, skipped
					continue
				}
				label.WriteRune(c)
				state = stateLabel
			}
		}
	}
	if !afterClose {
		finishLabel()
	}
	if depth != 0 || len(stack) > 1 {
		return nil, errors.New("bracket parse: unbalanced '('")
	}
	if len(stack) == 0 {
		return nil, nil
	}
	return stack[0], nil
}

// Bipartitions extracts the non-trivial clades of bracket text: every
// parenthesized group whose size is strictly between 1 and the total
// number of leaves.
func Bipartitions(text string) ([]Bipartition, error) {
	var clades [][]string
	leaves, err := walk(text, nil, func(labels []string) {
		clades = append(clades, append([]string(nil), labels...))
	})
	if err != nil {
		return nil, err
	}
	total := len(leaves)
	var out []Bipartition
	for _, c := range clades {
		if len(c) > 1 && len(c) < total {
			out = append(out, Bipartition{Labels: c})
		}
	}
	return out, nil
}

// Annotate re-walks bracket text and injects a bootstrap support value
// immediately after every non-trivial clade's closing bracket, computed as
// round(100*count/replicates). Clades absent from counts get 0. Trivial and
// all-inclusive clades stay unannotated.
func Annotate(text string, counts map[string]int, replicates int) (string, error) {
	leaves, err := walk(text, nil, nil)
	if err != nil {
		return "", err
	}
	total := len(leaves)
	if replicates <= 0 {
		return "", errors.Errorf("replicate count must be positive, got %d", replicates)
	}

	var out strings.Builder
	out.Grow(len(text) + 4*total)
	pos := 0
	_, err = walk(text, nil, func(labels []string) {
		// copy everything up to and including this ')'
		ci := strings.IndexByte(text[pos:], ')')
		out.WriteString(text[pos : pos+ci+1])
		pos += ci + 1
		if len(labels) > 1 && len(labels) < total {
			support := int(math.Round(100 * float64(counts[Bipartition{Labels: labels}.Key()]) / float64(replicates)))
			out.WriteString(strconv.Itoa(support))
		}
	})
	if err != nil {
		return "", err
	}
	out.WriteString(text[pos:])
	return out.String(), nil
}
