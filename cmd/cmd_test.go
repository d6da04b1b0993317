package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/rowmatch/internal/match"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const homesCSV = "id,city,price\n1,Austin,100\n2,Austin,150\n3,Dallas,100\n"

// isolate points HOME and the working directory at temp dirs so no real
// config or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)
	return home
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// resetFlags clears values and Changed state that persist between
// invocations of the package-level commands.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(findCmd.Flags())
	resetFlags(describeCmd.Flags())
	cfg = nil

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, "", args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func TestFind_ExactMatches(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	out := runCmd(t, "find", data, "--where", "city=AUSTIN", "-k", "1")
	if !strings.Contains(out, "Filtered Data:") {
		t.Fatalf("expected exact header, got:\n%s", out)
	}
	// exact results are not truncated to k
	if !strings.Contains(out, "\n0 ") || !strings.Contains(out, "\n1 ") || strings.Contains(out, "Dallas") {
		t.Fatalf("expected Austin rows 0 and 1 only, got:\n%s", out)
	}
	if strings.Contains(out, "Distance") {
		t.Fatalf("exact table should not carry a Distance column:\n%s", out)
	}
}

func TestFind_ClosestFallback(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	out := runCmd(t, "find", data, "--where", "city=Austin", "--where", "price=120", "-k", "2")
	if !strings.Contains(out, "No exact matches found. Showing closest available options:") {
		t.Fatalf("expected fallback header, got:\n%s", out)
	}
	i0, i2 := strings.Index(out, "\n0 "), strings.Index(out, "\n2 ")
	if i0 < 0 || i2 < 0 || i0 > i2 {
		t.Fatalf("expected row 0 before row 2, got:\n%s", out)
	}
	if strings.Contains(out, "\n1 ") {
		t.Fatalf("k=2 should drop row 1:\n%s", out)
	}
	if !strings.Contains(out, "Distance") {
		t.Fatalf("expected Distance column:\n%s", out)
	}
}

func TestFind_JSON(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV+"4,Austin,\n")

	out := runCmd(t, "find", data, "--where", "city=Austin", "--where", "price=120", "-k", "4", "--json")
	var res struct {
		QueryID string `json:"query_id"`
		Exact   bool   `json:"exact"`
		Filters []struct {
			Column string `json:"column"`
			Value  string `json:"value"`
		} `json:"filters"`
		Rows []struct {
			Index    int            `json:"index"`
			Distance *float64       `json:"distance"`
			Values   map[string]any `json:"values"`
		} `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if _, err := uuid.Parse(res.QueryID); err != nil {
		t.Fatalf("query_id %q is not a uuid: %v", res.QueryID, err)
	}
	if res.Exact || len(res.Filters) != 2 || len(res.Rows) != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
	want := []int{0, 2, 1, 3}
	for i, r := range res.Rows {
		if r.Index != want[i] {
			t.Fatalf("row %d index = %d, want %d", i, r.Index, want[i])
		}
	}
	if d := res.Rows[0].Distance; d == nil || *d != 20 {
		t.Fatalf("row 0 distance = %v, want 20", d)
	}
	if d := res.Rows[1].Distance; d == nil || *d != 21 {
		t.Fatalf("row 2 distance = %v, want 21", d)
	}
	if res.Rows[3].Distance != nil {
		t.Fatalf("missing price should encode distance as null, got %v", *res.Rows[3].Distance)
	}
	if res.Rows[0].Values["price"] != 100.0 || res.Rows[0].Values["city"] != "Austin" {
		t.Fatalf("unexpected values: %v", res.Rows[0].Values)
	}
	if v, ok := res.Rows[3].Values["price"]; !ok || v != nil {
		t.Fatalf("missing cell should be null, got %v", v)
	}
}

func TestFind_Errors(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	_, _, err := execute(t, "", "find", data, "--where", "zip=78701", "--strict")
	if err == nil || !errors.Is(err, match.ErrUnknownColumn) {
		t.Fatalf("expected unknown column error, got %v", err)
	}

	// without --strict the unknown column is ignored
	out := runCmd(t, "find", data, "--where", "zip=78701", "--where", "city=dallas")
	if !strings.Contains(out, "Filtered Data:") || !strings.Contains(out, "Dallas") {
		t.Fatalf("expected Dallas row, got:\n%s", out)
	}

	_, _, err = execute(t, "", "find", data, "--where", "city=Austin", "--where", "price=cheap")
	if !errors.Is(err, match.ErrUnparseableTarget) {
		t.Fatalf("expected unparseable target error, got %v", err)
	}

	_, _, err = execute(t, "", "find", data, "--where", "city")
	if err == nil {
		t.Fatal("expected error for malformed --where")
	}

	_, _, err = execute(t, "", "find", filepath.Join(home, "nope.csv"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	_, _, err = execute(t, "", "find", data, "--scale", "log")
	if err == nil {
		t.Fatal("expected error for bad --scale")
	}
}

func TestFind_Plot(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", "city,sqft,price\nAustin,1000,201\nAustin,1500,301\nAustin,2000,401\n")
	plotPath := filepath.Join(home, "homes.svg")

	_, errOut, err := execute(t, "", "find", data, "--where", "city=austin", "--plot", "sqft,price", "--plot-out", plotPath)
	if err != nil {
		t.Fatalf("find --plot: %v", err)
	}
	if _, err := os.Stat(plotPath); err != nil {
		t.Fatalf("plot not written: %v", err)
	}
	if !strings.Contains(errOut, "Wrote scatter plot") {
		t.Fatalf("expected plot message on stderr, got %q", errOut)
	}

	_, _, err = execute(t, "", "find", data, "--plot", "city,price", "--plot-out", plotPath)
	if err == nil {
		t.Fatal("expected error plotting a categorical column")
	}
}

func TestExplore_ClosestFlow(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	stdin := data + "\n2,3,x,9\nAustin\n120\n"
	out, _, err := execute(t, stdin, "explore")
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	for _, want := range []string{
		"Enter the file path of the CSV file: ",
		"Columns available for filtering:\n1: id\n2: city\n3: price\n",
		"Enter the numbers of the columns you want to filter (comma-separated): ",
		"Enter value for city (leave blank to skip): ",
		"Enter value for price (leave blank to skip): ",
		"No exact matches found. Showing closest available options:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "X-axis") {
		t.Fatalf("fallback results should not prompt for a plot:\n%s", out)
	}
}

func TestExplore_ExactFlowPlots(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", "id,city,sqft,price\n1,Austin,1000,201\n2,Austin,1500,301\n3,Dallas,2000,401\n")
	plotPath := filepath.Join(home, "scatter.png")

	stdin := "2\naustin\nsqft\nprice\n"
	out, _, err := execute(t, stdin, "explore", data, "--plot-out", plotPath)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if strings.Contains(out, "Enter the file path") {
		t.Fatalf("path argument should skip the file prompt:\n%s", out)
	}
	for _, want := range []string{
		"Filtered Data:",
		"Enter the column name for X-axis for visualization: ",
		"Enter the column name for Y-axis for visualization: ",
		"✓ Wrote scatter plot to " + plotPath,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if _, err := os.Stat(plotPath); err != nil {
		t.Fatalf("plot not written: %v", err)
	}

	out, _, err = execute(t, "2\naustin\nbeds\nprice\n", "explore", data, "--plot-out", plotPath)
	if err != nil {
		t.Fatalf("explore with bad axis: %v", err)
	}
	if !strings.Contains(out, "No data to visualize or dataset missing required columns.") {
		t.Fatalf("expected visualize warning:\n%s", out)
	}
}

func TestExplore_FileNotFound(t *testing.T) {
	home := isolate(t)
	missing := filepath.Join(home, "nope.csv")

	// root without a subcommand runs the interactive flow
	out, _, err := execute(t, missing+"\n")
	if err != nil {
		t.Fatalf("missing file should not fail the session: %v", err)
	}
	if !strings.Contains(out, "File not found: "+missing) {
		t.Fatalf("expected not found message, got:\n%s", out)
	}
	if strings.Contains(out, "Columns available") {
		t.Fatalf("flow should stop after a missing file:\n%s", out)
	}
}

func TestDescribe(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	out := runCmd(t, "describe", data)
	for _, want := range []string{"[SCHEMA]", "city", "price", "numeric", "categorical"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in describe output:\n%s", want, out)
		}
	}

	mdPath := filepath.Join(home, "homes.md")
	out = runCmd(t, "describe", data, "-o", mdPath)
	if !strings.Contains(out, "Wrote summary") {
		t.Fatalf("expected write confirmation, got %q", out)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Fatalf("summary not written: %v", err)
	}
}

func TestConfigSetShowAndApply(t *testing.T) {
	home := isolate(t)
	data := writeData(t, home, "homes.csv", homesCSV)

	runCmd(t, "config", "set", "top_k", "1")
	runCmd(t, "config", "set", "scaling", "range")
	if _, err := os.Stat(filepath.Join(home, ".rowmatch", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "top_k: 1") || !strings.Contains(out, "scaling: range") {
		t.Fatalf("unexpected config show:\n%s", out)
	}

	// top_k from config bounds the fallback; -k overrides it
	out = runCmd(t, "find", data, "--where", "price=120")
	if strings.Count(out, "\n") != 3 {
		t.Fatalf("expected header plus one row, got:\n%s", out)
	}
	out = runCmd(t, "find", data, "--where", "price=120", "-k", "3")
	if strings.Count(out, "\n") != 5 {
		t.Fatalf("expected header plus three rows, got:\n%s", out)
	}

	for _, bad := range [][]string{
		{"config", "set", "top_k", "0"},
		{"config", "set", "scaling", "log"},
		{"config", "set", "nope", "1"},
		{"config", "set", "decimal_separator", ";"},
	} {
		if _, _, err := execute(t, "", bad...); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func TestParseSelection(t *testing.T) {
	got := parseSelection(" 2, 3,x,9,0,-1,,1", 3)
	want := []int{1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(parseSelection("", 3)) != 0 {
		t.Fatal("blank selection should select nothing")
	}
}

func TestParseWhere(t *testing.T) {
	spec, err := parseWhere([]string{"city=Austin", "note=a=b", "city=Dallas"})
	if err != nil {
		t.Fatalf("parseWhere: %v", err)
	}
	if len(spec) != 2 || spec[0].Target != "Dallas" || spec[1].Target != "a=b" {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if _, err := parseWhere([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty column")
	}
}
