// Command roadcheck builds the road relevance index from a hierarchy table
// export and reports its contents, optionally testing street names against
// it. Useful when a new table export changes what the traffic filter keeps.
//
// Usage:
//
//	go run ./cmd/roadcheck -table data/hierarquia_viaria.txt \
//	  "Avenida Brasil" "R. Primeiro de Março"
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/riowatch/citymonitor/internal/adapter/upstream"
	"github.com/riowatch/citymonitor/internal/hierarchy"
)

func main() {
	table := flag.String("table", "", "path to the road hierarchy table export")
	list := flag.Bool("list", false, "print every indexed road")
	flag.Parse()

	if *table == "" {
		flag.Usage()
		os.Exit(1)
	}

	text, err := upstream.LoadRoadTable(*table)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	idx := hierarchy.BuildIndex(text)
	counts := idx.TierCounts()
	fmt.Printf("indexed roads: %d\n", idx.Len())
	fmt.Printf("  %s: %d\n", hierarchy.TierStructural, counts[hierarchy.TierStructural])
	fmt.Printf("  %s: %d\n", hierarchy.TierPrimaryArterial, counts[hierarchy.TierPrimaryArterial])
	fmt.Printf("  %s: %d\n", hierarchy.TierSecondaryArterial, counts[hierarchy.TierSecondaryArterial])

	if *list {
		for _, rec := range idx.Records() {
			fmt.Printf("%-20s %s\n", rec.Tier, rec.OriginalName)
		}
	}

	exit := 0
	for _, name := range flag.Args() {
		if idx.IsRelevant(name) {
			fmt.Printf("relevant:     %s\n", name)
		} else {
			fmt.Printf("not relevant: %s\n", name)
			exit = 1
		}
	}
	os.Exit(exit)
}
