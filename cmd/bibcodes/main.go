// Command bibcodes is the CLI tool for the Bible version codes registry.
// It provides commands for parsing codes, querying the registry, and
// converting the dataset between formats.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FreelyGiven/BibleVersionCodes/core/checksum"
	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/dataset"
	"github.com/FreelyGiven/BibleVersionCodes/core/registry"
	"github.com/FreelyGiven/BibleVersionCodes/core/sqlite"
	"github.com/FreelyGiven/BibleVersionCodes/internal/logging"
	"github.com/FreelyGiven/BibleVersionCodes/internal/validation"
)

const version = "0.10.0"

// CLI defines the command-line interface for bibcodes.
var CLI struct {
	// Global flags
	DataFile  string `name:"data-file" short:"f" help:"Path to the version codes XML dataset" type:"path" default:"DataFiles/BibleVersionCodes.xml"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" enum:"text,json" default:"text"`

	// Command groups (noun-first organization)
	Code     CodeGroup    `cmd:"" help:"Version code operations (parse, validate)"`
	Registry RegGroup     `cmd:"" help:"Registry operations (lookup, propose, list, verify)"`
	Dataset  DatasetGroup `cmd:"" help:"Dataset operations (info, convert)"`
	Version  VersionCmd   `cmd:"" help:"Print version information"`
}

// CodeGroup contains code validation operations.
type CodeGroup struct {
	Parse    CodeParseCmd    `cmd:"" help:"Parse a code into its components"`
	Validate CodeValidateCmd `cmd:"" help:"Validate one or more candidate codes"`
}

// RegGroup contains registry query operations.
type RegGroup struct {
	Lookup  LookupCmd  `cmd:"" help:"Look up a code in the registry"`
	Propose ProposeCmd `cmd:"" help:"Propose new codes against the registry"`
	List    ListCmd    `cmd:"" help:"List all registered codes"`
	Verify  VerifyCmd  `cmd:"" help:"Verify dataset integrity and assignment policy"`
}

// DatasetGroup contains dataset file operations.
type DatasetGroup struct {
	Info    InfoCmd    `cmd:"" help:"Display dataset summary and checksums"`
	Convert ConvertCmd `cmd:"" help:"Convert the dataset to another format"`
}

// loader caches parsed datasets across subcommand helpers.
var loader = dataset.NewLoader(8)

// loadDataset loads the configured dataset file.
func loadDataset() (*dataset.Dataset, error) {
	return loadDatasetFile(CLI.DataFile)
}

// loadDatasetFile validates a dataset path and its content type, then
// loads it through the shared cache. Files whose magic bytes
// contradict their extension are refused before parsing.
func loadDatasetFile(path string) (*dataset.Dataset, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid dataset path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.Size() > validation.MaxFileSize {
		f.Close()
		return nil, fmt.Errorf("dataset %s exceeds %d byte limit", path, validation.MaxFileSize)
	}
	fileType, err := validation.ValidateFileType(f, path)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("refusing dataset %s: %w", path, err)
	}
	logging.Debug("dataset_type", "path", path, "type", string(fileType))

	start := time.Now()
	ds, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	logging.DatasetLoad(path, ds.Len(), time.Since(start))
	return ds, nil
}

// loadRegistry loads the dataset and builds the registry snapshot.
func loadRegistry() (*registry.Registry, error) {
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	reg, err := ds.Registry()
	if err != nil {
		return nil, err
	}
	logging.RegistryLoad(reg.Len())
	return reg, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// CodeParseCmd parses a candidate code and prints its components.
type CodeParseCmd struct {
	Candidate string `arg:"" help:"Candidate code (e.g. KJV-1611!MBS_1997_Printing)"`
	JSON      bool   `help:"Output as JSON"`
}

func (c *CodeParseCmd) Run() error {
	parsed, err := code.Parse(c.Candidate)
	if err != nil {
		logging.ValidationError(c.Candidate, err)
		return err
	}

	if c.JSON {
		return printJSON(map[string]string{
			"base":         parsed.Base,
			"year":         parsed.Year,
			"edition":      parsed.Edition,
			"canonicalKey": parsed.CanonicalKey(),
		})
	}

	fmt.Printf("Base:          %s\n", parsed.Base)
	if parsed.HasYear() {
		fmt.Printf("Year:          %s\n", parsed.Year)
	}
	if parsed.HasEdition() {
		fmt.Printf("Edition:       %s\n", parsed.Edition)
	}
	fmt.Printf("Canonical key: %s\n", parsed.CanonicalKey())
	return nil
}

// CodeValidateCmd validates candidate codes, reporting each result.
type CodeValidateCmd struct {
	Candidates []string `arg:"" help:"Candidate codes to validate"`
}

func (c *CodeValidateCmd) Run() error {
	invalid := 0
	for _, candidate := range c.Candidates {
		if err := code.Validate(candidate); err != nil {
			fmt.Printf("FAIL  %-20s %v\n", candidate, err)
			invalid++
			continue
		}
		fmt.Printf("ok    %s\n", candidate)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d candidates invalid", invalid, len(c.Candidates))
	}
	return nil
}

// LookupCmd looks up one code in the registry.
type LookupCmd struct {
	Code string `arg:"" help:"Code to look up (case-insensitive)"`
	JSON bool   `help:"Output as JSON"`
}

func (c *LookupCmd) Run() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	entry, err := reg.Lookup(c.Code)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(entry)
	}

	printEntry(entry)
	return nil
}

// printEntry writes one registry entry in the human-readable layout.
func printEntry(e *registry.Entry) {
	fmt.Printf("Code:      %s\n", e.Code)
	fmt.Printf("Name:      %s\n", e.FullName)
	fmt.Printf("Language:  %s\n", e.Language)
	if e.Publisher != "" {
		fmt.Printf("Publisher: %s\n", e.Publisher)
	}
	if e.Licence != "" {
		fmt.Printf("Licence:   %s\n", e.Licence)
	}
	if e.Link != "" {
		fmt.Printf("Link:      %s\n", e.Link)
	}
	if e.Kind != registry.KindUnknown {
		fmt.Printf("Kind:      %s\n", e.Kind)
	}
}

// ProposeCmd checks candidate codes against the registry and reports
// whether each would be accepted.
type ProposeCmd struct {
	Candidates []string `arg:"" help:"Candidate codes to propose"`
	JSON       bool     `help:"Output decisions as JSON"`
}

func (c *ProposeCmd) Run() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	decisions := make([]registry.Decision, 0, len(c.Candidates))
	rejected := 0
	for _, candidate := range c.Candidates {
		d := reg.Propose(candidate)
		decisions = append(decisions, d)
		logging.ProposalEvent(candidate, d.Accepted, d.Reason)
		if !d.Accepted {
			rejected++
		}
	}

	if c.JSON {
		if err := printJSON(decisions); err != nil {
			return err
		}
	} else {
		for _, d := range decisions {
			if d.Accepted {
				fmt.Printf("accept  %-20s %s\n", d.Candidate, d.ID)
			} else {
				fmt.Printf("reject  %-20s %s\n", d.Candidate, d.Reason)
			}
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d proposals rejected", rejected, len(c.Candidates))
	}
	return nil
}

// ListCmd lists every registered code in first-registered order.
type ListCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (c *ListCmd) Run() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	entries := reg.Entries()
	if c.JSON {
		return printJSON(entries)
	}

	for _, e := range entries {
		fmt.Printf("%-10s %-12s %s\n", e.Code, e.Language, e.FullName)
	}
	fmt.Printf("%d codes registered\n", len(entries))
	return nil
}

// VerifyCmd verifies the dataset parses cleanly and, when a contenders
// file is given, reports assignment policy collisions where a
// commentary holds a code that a Bible wants.
type VerifyCmd struct {
	Contenders string `help:"Optional second dataset of contending codes" type:"path"`
}

func (c *VerifyCmd) Run() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d codes, uniqueness verified\n", reg.Len())

	if c.Contenders == "" {
		return nil
	}

	cds, err := loadDatasetFile(c.Contenders)
	if err != nil {
		return err
	}
	creg, err := cds.Registry()
	if err != nil {
		return err
	}

	violations := reg.VerifyPolicy(creg.Entries())
	if len(violations) == 0 {
		fmt.Println("ok: no assignment policy violations")
		return nil
	}

	for _, v := range violations {
		fmt.Printf("policy: %s held by commentary %q, contended by %s %q\n",
			v.CanonicalKey, v.Holder.FullName, v.Contender.Kind, v.Contender.FullName)
	}
	return fmt.Errorf("%d assignment policy violations", len(violations))
}

// InfoCmd summarizes the dataset file.
type InfoCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (c *InfoCmd) Run() error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	sum, err := checksum.File(CLI.DataFile)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(map[string]any{
			"header":   ds.Header,
			"records":  ds.Len(),
			"checksum": sum,
		})
	}

	fmt.Printf("Title:    %s\n", ds.Header.Title)
	fmt.Printf("Version:  %s\n", ds.Header.Version)
	fmt.Printf("Date:     %s\n", ds.Header.Date)
	fmt.Printf("Records:  %d\n", ds.Len())
	fmt.Printf("SHA-256:  %s\n", sum.SHA256)
	fmt.Printf("BLAKE3:   %s\n", sum.BLAKE3)
	fmt.Printf("Size:     %d bytes\n", sum.SizeBytes)
	return nil
}

// ConvertCmd converts the dataset into a derived export format. The
// format is taken from the output filename extension.
type ConvertCmd struct {
	Out string `arg:"" help:"Output path (.xml, .json, .tsv, or .db/.sqlite)" type:"path"`
}

func (c *ConvertCmd) Run() error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := validation.ValidateFilename(filepath.Base(c.Out)); err != nil {
		return fmt.Errorf("invalid output filename: %w", err)
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(c.Out)) {
	case ".xml":
		return writeFile(c.Out, ds, dataset.WriteXML)
	case ".json":
		return writeFile(c.Out, ds, dataset.WriteJSON)
	case ".tsv":
		return writeFile(c.Out, ds, dataset.WriteTSV)
	case ".db", ".sqlite", ".sqlite3":
		db, err := sqlite.Open(c.Out)
		if err != nil {
			return err
		}
		defer db.Close()
		return sqlite.Export(db, ds)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(c.Out))
	}
}

// writeFile writes one derived export to path.
func writeFile(path string, ds *dataset.Dataset, write func(w io.Writer, ds *dataset.Dataset) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("bibcodes %s\n", version)
	info := sqlite.GetInfo()
	fmt.Printf("sqlite driver: %s (%s)\n", info.DriverName, info.DriverType)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bibcodes"),
		kong.Description("Bible version codes - abbreviation registry and dataset tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
