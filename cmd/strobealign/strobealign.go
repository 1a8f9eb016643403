package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const version string = "0.0.1"

type subcommand struct {
	name     string
	function func(args []string)
	blurb    string
}

// SubCommands contains all valid subcommands. New subcommands can be
// added by adding a new entry to this array.
var SubCommands = []*subcommand{
	{"align", runAlign, "align single- or paired-end FASTQ reads against a FASTA reference"},
	{"isize", runIsize, "fit and plot an insert-size distribution from a sample of template lengths"},
}

func usage() {
	s := new(strings.Builder)
	s.WriteString(
		"Program: strobealign (short-read alignment core)\n" +
			"Version: " + version + "\n" +
			"\nUsage:\tstrobealign <command> [options]\n\n" +
			"Commands:\n")

	w := tabwriter.NewWriter(s, 0, 8, 5, '\t', tabwriter.AlignRight)
	for i := range SubCommands {
		fmt.Fprintf(w, "\t%s\t%s\n", SubCommands[i].name, SubCommands[i].blurb)
	}
	w.Flush()
	fmt.Print(s.String())
}

func commandMap() map[string]func(args []string) {
	m := make(map[string]func(args []string))
	for i := range SubCommands {
		m[SubCommands[i].name] = SubCommands[i].function
	}
	return m
}

func main() {
	flag.Usage = usage
	flag.Parse()

	command := commandMap()[flag.Arg(0)]
	if command == nil {
		flag.Usage()
		return
	}
	command(flag.Args()[1:])
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
