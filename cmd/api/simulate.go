package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"peptide-tracker/internal/kinetics"
)

type simDose struct {
	Compound      string    `json:"compound"`
	At            time.Time `json:"at"`
	Amount        float64   `json:"amount"`
	HalfLifeHours *float64  `json:"half_life_hours"`
}

func newSimulateCmd() *cobra.Command {
	var (
		file   string
		window string
		nowStr string
		every  int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print estimated levels for a JSON list of doses",
		Long: `Reads a JSON array of doses from --file (or stdin) and prints a level table.

  [{"compound": "bpc-157", "at": "2024-05-01T08:00:00Z", "amount": 250, "half_life_hours": 4}]`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			ds, err := readDoses(in)
			if err != nil {
				return err
			}

			now := time.Now()
			if nowStr != "" {
				if now, err = time.Parse(time.RFC3339, nowStr); err != nil {
					return fmt.Errorf("--now: %w", err)
				}
			}

			var (
				sim kinetics.Simulator
				win kinetics.Window
			)
			switch window {
			case "short", "":
				sim, win = kinetics.ShortTerm(), kinetics.ShortTermWindow(now)
			case "long":
				start := now
				for _, d := range ds {
					if d.At.Before(start) {
						start = d.At
					}
				}
				sim, win = kinetics.LongTerm(), kinetics.LongTermWindow(start, now)
			default:
				return fmt.Errorf("--window must be short or long, got %q", window)
			}

			return writeLevelTable(cmd.OutOrStdout(), sim.Simulate(ds, win), every)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "dose JSON file, - for stdin")
	cmd.Flags().StringVarP(&window, "window", "w", "short", "short (now±24h) or long (daily since first dose)")
	cmd.Flags().StringVar(&nowStr, "now", "", "reference time, RFC3339 (default: current time)")
	cmd.Flags().IntVar(&every, "every", 10, "print every Nth sample")
	return cmd
}

func readDoses(r io.Reader) ([]kinetics.Dose, error) {
	var in []simDose
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode doses: %w", err)
	}
	out := make([]kinetics.Dose, 0, len(in))
	for _, d := range in {
		if strings.TrimSpace(d.Compound) == "" {
			return nil, fmt.Errorf("dose at %s has no compound", d.At.Format(time.RFC3339))
		}
		out = append(out, kinetics.Dose{
			CompoundID:    d.Compound,
			At:            d.At,
			Amount:        d.Amount,
			HalfLifeHours: d.HalfLifeHours,
		})
	}
	return out, nil
}

// writeLevelTable prints one row per sampled instant and one column per
// visible compound. The last sample is always printed.
func writeLevelTable(w io.Writer, res kinetics.Result, every int) error {
	if every < 1 {
		every = 1
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "time")
	for _, id := range res.Visible {
		fmt.Fprintf(tw, "\t%s", id)
	}
	fmt.Fprintln(tw)

	samples := res.Samples()
	for i, s := range samples {
		if i%every != 0 && i != len(samples)-1 {
			continue
		}
		fmt.Fprint(tw, s.At.UTC().Format("2006-01-02 15:04"))
		for _, id := range res.Visible {
			fmt.Fprintf(tw, "\t%.3f", s.Levels[id])
		}
		fmt.Fprintln(tw)
	}

	if len(res.Visible) > 0 {
		fmt.Fprintln(tw)
		for _, id := range res.Visible {
			p := res.Peaks[id]
			fmt.Fprintf(tw, "peak %s\t%.3f\tat %s\n", id, p.Value, p.At.UTC().Format(time.RFC3339))
		}
	}
	return tw.Flush()
}
