package products

import (
	"regexp"
	"strconv"
	"strings"
)

// SizeTableStrategy reconstructs the size to quantity table of one segment.
// Only sizes with a positive quantity are returned.
type SizeTableStrategy interface {
	Sizes(body string) []Size
}

var numericRowPattern = regexp.MustCompile(`^[\d\s]+$`)

// PairedRows reads sizes from rows made only of whitespace separated integers.
// Rows come in (labels, quantities) pairs; a layout may repeat the pair, e.g.
// one group per shoe width. Labels and quantities of all groups are
// concatenated and then zipped positionally.
type PairedRows struct {
	// MaxGroups limits how many (labels, quantities) pairs are read. Zero reads
	// every complete pair.
	MaxGroups int
}

// Sizes implements SizeTableStrategy
func (p PairedRows) Sizes(body string) []Size {
	rows := numericRows(body)
	if len(rows) < 2 {
		return nil
	}

	var labels []string
	var quantities []int
	for g := 0; g+1 < len(rows); g += 2 {
		if p.MaxGroups > 0 && g/2 >= p.MaxGroups {
			break
		}
		for _, n := range rows[g] {
			labels = append(labels, strconv.Itoa(n))
		}
		quantities = append(quantities, rows[g+1]...)
	}

	var table sizeTable
	for i := 0; i < len(labels) && i < len(quantities); i++ {
		table.add(labels[i], quantities[i])
	}
	return table.sizes()
}

// numericRows returns the integers of every pure numeric line of body.
func numericRows(body string) [][]int {
	var rows [][]int
	for _, line := range strings.Split(body, "\n") {
		if !numericRowPattern.MatchString(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]int, 0, len(fields))
		ok := true
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				ok = false
				break
			}
			row = append(row, n)
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// InlineSizes reads sizes encoded inline, one occurrence per size, such as
// "[38]: 2 pc". Pattern must capture the size label first and the quantity
// second.
type InlineSizes struct {
	Pattern *regexp.Regexp
}

// Sizes implements SizeTableStrategy
func (s InlineSizes) Sizes(body string) []Size {
	var table sizeTable
	for _, m := range s.Pattern.FindAllStringSubmatch(body, -1) {
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		table.add(m[1], qty)
	}
	return table.sizes()
}

// sizeTable keeps sizes in first-seen order. A repeated label overwrites the
// earlier quantity in place.
type sizeTable struct {
	order []string
	qty   map[string]int
}

func (t *sizeTable) add(label string, qty int) {
	if qty <= 0 {
		return
	}
	if t.qty == nil {
		t.qty = make(map[string]int)
	}
	if _, seen := t.qty[label]; !seen {
		t.order = append(t.order, label)
	}
	t.qty[label] = qty
}

func (t *sizeTable) sizes() []Size {
	if len(t.order) == 0 {
		return nil
	}
	out := make([]Size, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, Size{Name: label, Quantity: t.qty[label]})
	}
	return out
}

// TotalQuantity sums the quantities of sizes.
func TotalQuantity(sizes []Size) int {
	total := 0
	for _, s := range sizes {
		total += s.Quantity
	}
	return total
}
