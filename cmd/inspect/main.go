// Package main prints a chromosome's program listing, layer structure and
// weight summary, and optionally traces or scores it in the arena.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/pthm-cable/genogrid/agent"
	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/genome"
	"github.com/pthm-cable/genogrid/inspector"
	"github.com/pthm-cable/genogrid/systems"
	"github.com/pthm-cable/genogrid/telemetry"
)

func main() {
	hexFlag := flag.String("hex", "", "Chromosome as hex")
	hofPath := flag.String("hof", "", "hall_of_fame.json to read from")
	snapPath := flag.String("snapshot", "", "Snapshot file to read from")
	index := flag.Int("index", 0, "Entry index in the hall of fame or snapshot")
	configPath := flag.String("config", "", "Config YAML for the arena (empty = use defaults)")
	trace := flag.Int("trace", 0, "Print the first N moves from the origin")
	score := flag.Bool("score", false, "Evaluate the chromosome alone in the arena")
	flag.Parse()

	c, err := loadChromosome(*hexFlag, *hofPath, *snapPath, *index)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("chromosome: %d bytes, %d instructions\n", c.Len(), c.Instructions())
	prog, err := c.Program()
	if err != nil {
		log.Fatalf("decode failed: %v", err)
	}

	fmt.Println("\nprogram:")
	fmt.Print(inspector.Disassemble(prog))

	layers := inspector.NewLayerDescriber()
	prog.Execute(layers)
	fmt.Println("\nlayers:")
	fmt.Print(layers.String())

	printCounts(inspector.Count(prog))

	if *trace <= 0 && !*score {
		return
	}

	config.MustInit(*configPath)
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(cfg.Seed))

	brain, err := agent.New(c, rng)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	if *trace > 0 {
		dx, dy := brain.Network().Outputs()
		fmt.Printf("\ntrace (dX = n%d, dY = n%d):\n", dx, dy)
		pos := agent.Position{}
		for i := 0; i < *trace; i++ {
			m := brain.DecideNextMove(pos)
			next := agent.Position{
				X: genome.Wrap(pos.X+m.DX, cfg.Arena.Width),
				Y: genome.Wrap(pos.Y+m.DY, cfg.Arena.Height),
			}
			fmt.Printf("%4d  (%d,%d) %+d,%+d -> (%d,%d)  signals %s\n",
				i, pos.X, pos.Y, m.DX, m.DY, next.X, next.Y, formatSignals(brain.Network().Signals()))
			pos = next
		}
	}

	if *score {
		arena := systems.NewArena(cfg.Arena, cfg.Seed, slog.Default())
		res := arena.Evaluate([]*agent.Agent{brain}, rng)[0]
		fmt.Printf("\narena %dx%d, %d steps, %d food\n", cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.Steps, arena.Food().Total())
		fmt.Printf("eaten=%d moves=%d cells=%d\n", res.Eaten, res.Moves, res.Cells)
	}
}

func loadChromosome(hex, hofPath, snapPath string, index int) (genome.Chromosome, error) {
	switch {
	case hex != "":
		return genome.ParseHex(strings.TrimSpace(hex))
	case hofPath != "":
		hof, err := telemetry.LoadHallOfFameFromFile(hofPath, 0)
		if err != nil {
			return genome.Chromosome{}, err
		}
		entries := hof.Entries()
		if index < 0 || index >= len(entries) {
			return genome.Chromosome{}, fmt.Errorf("index %d out of range: hall of fame has %d entries", index, len(entries))
		}
		e := entries[index]
		fmt.Printf("hall of fame #%d: fitness %.0f, generation %d\n", index, e.Fitness, e.Generation)
		return e.Chromosome, nil
	case snapPath != "":
		snap, err := telemetry.LoadSnapshot(snapPath)
		if err != nil {
			return genome.Chromosome{}, err
		}
		if index < 0 || index >= len(snap.Individuals) {
			return genome.Chromosome{}, fmt.Errorf("index %d out of range: snapshot has %d individuals", index, len(snap.Individuals))
		}
		ind := snap.Individuals[index]
		fmt.Printf("snapshot generation %d #%d: fitness %.0f, valid %v\n", snap.Generation, index, ind.Fitness, ind.Valid)
		return ind.Chromosome, nil
	}
	fmt.Fprintln(os.Stderr, "one of --hex, --hof or --snapshot is required")
	flag.Usage()
	os.Exit(2)
	return genome.Chromosome{}, nil
}

func printCounts(wc *inspector.WeightCounter) {
	fmt.Printf("\nneurons=%d edges=%d moves=%d outputs=%d\n", wc.Neurons, wc.Edges, wc.Moves, wc.Outputs)

	kinds := make([]string, 0, len(wc.ByKind))
	for k := range wc.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-7s %d\n", k, wc.ByKind[k])
	}

	largest, nonFinite := wc.MaxAbsWeight()
	fmt.Printf("max |weight| %g, non-finite %d\n", largest, nonFinite)
}

func formatSignals(signals []float64) string {
	parts := make([]string, len(signals))
	for i, v := range signals {
		parts[i] = fmt.Sprintf("%.3g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
