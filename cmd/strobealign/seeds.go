package main

import (
	"log"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"

	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/read"
)

// fileSeedProducer is a debug stand-in for the upstream strobemer
// index and NAM finder: it loads precomputed seeds from a flat TSV,
// keyed by read name, so the rest of the core can be driven end to
// end without linking in a real index.
//
// Columns: read_name, nonrepetitive_fraction, ref_id, ref_start,
// ref_end, query_start, query_end, is_rc, score, n_hits, nam_id.
// Line scanning follows the same fileio.EasyOpen/EasyNextRealLine plus
// strconv.Atoi/exception.PanicOnErr pattern as the .fai loader in
// reference/index.go.
type fileSeedProducer struct {
	byName       map[string][]nam.Seed
	nonrepByName map[string]float64
}

func loadSeedFile(filename string) *fileSeedProducer {
	p := &fileSeedProducer{
		byName:       make(map[string][]nam.Seed),
		nonrepByName: make(map[string]float64),
	}
	if filename == "" {
		return p
	}
	file := fileio.EasyOpen(filename)

	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col := strings.Split(line, "\t")
		if len(col) != 11 {
			log.Fatalf("ERROR: malformed seed file %s, expected 11 columns, got %d on line:\n%s\n", filename, len(col), line)
		}
		name := col[0]
		nonrep, err := strconv.ParseFloat(col[1], 64)
		exception.PanicOnErr(err)
		p.nonrepByName[name] = nonrep

		seed := nam.Seed{}
		seed.RefID, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		seed.RefStart, err = strconv.Atoi(col[3])
		exception.PanicOnErr(err)
		seed.RefEnd, err = strconv.Atoi(col[4])
		exception.PanicOnErr(err)
		seed.QueryStart, err = strconv.Atoi(col[5])
		exception.PanicOnErr(err)
		seed.QueryEnd, err = strconv.Atoi(col[6])
		exception.PanicOnErr(err)
		seed.IsRC = col[7] == "1"
		seed.Score, err = strconv.Atoi(col[8])
		exception.PanicOnErr(err)
		seed.NHits, err = strconv.Atoi(col[9])
		exception.PanicOnErr(err)
		seed.NamID, err = strconv.Atoi(col[10])
		exception.PanicOnErr(err)

		p.byName[name] = append(p.byName[name], seed)
	}
	err := file.Close()
	exception.PanicOnErr(err)
	return p
}

// seedsFor looks up the loaded seeds for a read name. The name is
// threaded in separately by namedSeedProducer, which implements
// driver.SeedProducer, since read.Read itself carries no name.
func (p *fileSeedProducer) seedsFor(name string) (float64, []nam.Seed) {
	return p.nonrepByName[name], p.byName[name]
}

// namedSeedProducer adapts a name-keyed lookup to driver.SeedProducer
// for one specific read, resolved once per record before the driver
// call (the core only ever sees one read's seeds at a time).
type namedSeedProducer struct {
	producer *fileSeedProducer
	name     string
}

func (n namedSeedProducer) Seeds(r read.Read) (float64, []nam.Seed) {
	return n.producer.seedsFor(n.name)
}

// noRescue is a RescueSeedProducer that never finds anything, used
// when no separate rescue seed file is configured.
type noRescue struct{}

func (noRescue) RescueSeeds(r read.Read, cutoff int) []nam.Seed { return nil }
