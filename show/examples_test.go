package show_test

import (
	"fmt"

	"github.com/zenibako/fireworks-golang/show"
)

// Example building a two-cue show and reading back the running order
func ExampleShow() {
	s := show.New()

	if _, err := s.AddCue("Opener", "12.5", show.CategoryMainEvent); err != nil {
		panic(err)
	}
	if _, err := s.AddCue("Closer", "30", show.CategoryGrandFinale); err != nil {
		panic(err)
	}

	for _, row := range s.Rows() {
		fmt.Printf("%d. %s (%s) %s\n", row.Sequence, row.Name, row.Category, row.Runtime)
	}

	totals := s.Totals()
	fmt.Println("Total Main Event Time:", totals.Main())
	fmt.Println("Total Grand Finale Time:", totals.Grand())
	fmt.Println("Total Run Time:", totals.Overall())

	// Output:
	// 1. Opener (Main Event) 0:12
	// 2. Closer (Grand Finale) 0:30
	// Total Main Event Time: 0:12
	// Total Grand Finale Time: 0:30
	// Total Run Time: 0:42
}

func ExampleFormatRuntime() {
	fmt.Println(show.FormatRuntime(42.5))
	fmt.Println(show.FormatRuntime(3725))
	// Output:
	// 0:42
	// 62:05
}

func ExampleParseRuntime() {
	seconds, err := show.ParseRuntime("2:05")
	if err != nil {
		panic(err)
	}
	fmt.Println(seconds)
	// Output: 125
}
