// bencode - bencode codec CLI tool
//
// Usage:
//
//	bencode decode [file]              Decode and pretty-print a value tree
//	bencode to-json [--extended] [file]   Convert bencode to JSON
//	bencode from-json [--extended] [file] Convert JSON to canonical bencode
//	bencode canon [file]               Re-encode a value canonically
//	bencode hash [file]                Print BLAKE3 digest and SHA-1 infohash
//	bencode version                    Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/Neumenon/bencode/bencode"
)

const libVersion = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	fs := pflag.NewFlagSet(cmd, pflag.ExitOnError)
	extended := fs.Bool("extended", false, "use $bencode:b64 markers for binary strings")
	indent := fs.String("indent", "", "indent JSON output with this string")
	maxDepth := fs.Int("max-depth", 0, "maximum container nesting depth (0 = default)")

	switch cmd {
	case "decode", "to-json", "from-json", "canon", "hash":
		if err := fs.Parse(os.Args[2:]); err != nil {
			fatal("parse flags: %v", err)
		}
	case "version":
		fmt.Printf("bencode %s\n", libVersion)
		return
	default:
		fmt.Fprintf(os.Stderr, "bencode: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	input := readInput(fs.Args())
	opts := bencode.BridgeOpts{Extended: *extended}

	switch cmd {
	case "decode":
		v := decodeInput(input, *maxDepth)
		dump(os.Stdout, v, 0)

	case "to-json":
		v := decodeInput(input, *maxDepth)
		out, err := bencode.ToJSONWithOpts(v, opts)
		if err != nil {
			fatal("to-json: %v", err)
		}
		if *indent != "" {
			out = indentJSON(out, *indent)
		}
		os.Stdout.Write(out)
		fmt.Println()

	case "from-json":
		v, err := bencode.FromJSONWithOpts(input, opts)
		if err != nil {
			fatal("from-json: %v", err)
		}
		os.Stdout.Write(bencode.Encode(v))

	case "canon":
		v := decodeInput(input, *maxDepth)
		os.Stdout.Write(bencode.Encode(v))

	case "hash":
		v := decodeInput(input, *maxDepth)
		fmt.Printf("blake3   %s\n", bencode.DigestHex(v))
		fmt.Printf("infohash %s\n", bencode.InfohashHex(v))
	}
}

func readInput(args []string) []byte {
	var in io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		fatal("read input: %v", err)
	}
	return data
}

func decodeInput(input []byte, maxDepth int) *bencode.Value {
	v, err := bencode.DecodeWithOptions(input, bencode.DecodeOptions{MaxDepth: maxDepth})
	if err != nil {
		fatal("decode: %v", err)
	}
	return v
}

// dump prints a value tree with two-space indentation per level.
func dump(w io.Writer, v *bencode.Value, depth int) {
	pad := ""
	for i := 0; i < depth; i++ {
		pad += "  "
	}

	switch v.Type() {
	case bencode.TypeString:
		b, _ := v.AsBytes()
		fmt.Fprintf(w, "%sstring %s\n", pad, strconv.Quote(string(b)))
	case bencode.TypeInteger:
		n, _ := v.AsInt()
		fmt.Fprintf(w, "%sinteger %d\n", pad, n)
	case bencode.TypeList:
		elems, _ := v.AsList()
		fmt.Fprintf(w, "%slist (%d elements)\n", pad, len(elems))
		for _, elem := range elems {
			dump(w, elem, depth+1)
		}
	case bencode.TypeDict:
		entries, _ := v.AsDict()
		fmt.Fprintf(w, "%sdict (%d entries)\n", pad, len(entries))
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s =>\n", pad, strconv.Quote(e.Key))
			dump(w, e.Value, depth+2)
		}
	}
}

// indentJSON reformats compact JSON with the given indent string.
func indentJSON(data []byte, indent string) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return data
	}
	return buf.Bytes()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bencode: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `bencode - bencode codec CLI tool

Usage:
  bencode decode [file]          Decode and pretty-print a value tree
  bencode to-json [file]         Convert bencode to JSON
  bencode from-json [file]       Convert JSON to canonical bencode
  bencode canon [file]           Re-encode a value canonically
  bencode hash [file]            Print BLAKE3 digest and SHA-1 infohash
  bencode version                Print version info

Flags:
  --extended        use $bencode:b64 markers for binary strings
  --indent string   indent JSON output with this string
  --max-depth int   maximum container nesting depth (0 = default)

If no file is given, reads from stdin.`)
}
