package reference

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// contigOffset mirrors one line of a samtools .fai index: name, length,
// byte offset of the first base, bases per line, bytes per line. Kept
// by integer ref_id throughout rather than by name, matching the
// Seed's ref_id field.
type contigOffset struct {
	name         string
	len          int
	offset       int
	basesPerLine int
	bytesPerLine int
}

func (c contigOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

// index is the contig-id -> (name, length) side of the Reference
// store. It is read once from a .fai file and never mutated afterward.
type index struct {
	contigs []contigOffset
	byName  map[string]int
}

func readFai(filename string) index {
	file := fileio.EasyOpen(filename)
	var idx index
	var curr contigOffset
	var line string
	var col []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			log.Fatalf("ERROR: malformed fai index: %s\nerror on line:\n%s\n", filename, line)
		}
		curr.name = col[0]
		curr.len, err = strconv.Atoi(col[1])
		exception.PanicOnErr(err)
		curr.offset, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		curr.basesPerLine, err = strconv.Atoi(col[3])
		exception.PanicOnErr(err)
		curr.bytesPerLine, err = strconv.Atoi(col[4])
		exception.PanicOnErr(err)
		idx.contigs = append(idx.contigs, curr)
	}
	err = file.Close()
	exception.PanicOnErr(err)

	idx.byName = make(map[string]int, len(idx.contigs))
	for i := range idx.contigs {
		idx.byName[idx.contigs[i].name] = i
	}
	return idx
}
