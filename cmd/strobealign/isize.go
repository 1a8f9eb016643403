package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"

	"github.com/luispedro/strobealign/isize"
)

func isizeUsage(f *flag.FlagSet) {
	fmt.Print(
		"isize - fit an insert-size distribution from a column of template lengths and print a sparkline\n\n" +
			"Usage:\n" +
			"  strobealign isize -i lengths.txt\n\n" +
			"Options:\n")
	f.PrintDefaults()
}

func runIsize(args []string) {
	f := flag.NewFlagSet("isize", flag.ExitOnError)
	input := f.String("i", "", "File with one observed template length per line.")
	prior := f.Float64("prior", 500, "Prior mean insert size before any sample is observed.")

	err := f.Parse(args)
	exception.PanicOnErr(err)
	f.Usage = func() { isizeUsage(f) }

	if *input == "" {
		f.Usage()
		errExit("\nERROR: must provide a file of template lengths with -i")
	}

	est := isize.New(*prior)
	file := fileio.EasyOpen(*input)
	var line string
	var done bool
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		length, convErr := strconv.Atoi(strings.TrimSpace(line))
		exception.PanicOnErr(convErr)
		est.Update(length)
	}
	err = file.Close()
	exception.PanicOnErr(err)

	fmt.Printf("n=%d mean=%.2f sigma=%.2f\n", est.SampleSize(), est.Mean(), est.Sigma())
	fmt.Println(est.Sparkline())
}
