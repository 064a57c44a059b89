package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sargasso-search/postings"
	"github.com/sargasso-search/postings/index"
	"github.com/sargasso-search/postings/query"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "postings",
		Short: "Integer compression codecs for impact-ordered postings lists",
	}

	rootCmd.AddCommand(codecsCmd(), encodeCmd(), decodeCmd(), queryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func codecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the known compression codecs",
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range postings.Codecs() {
				fmt.Printf("%-4s %-28s %s\n", d.Short, d.Long, d.Name)
			}
		},
	}
}

func encodeCmd() *cobra.Command {
	var codecFlag, out string
	var gaps bool

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode decimal integers (one per line) to a compressed buffer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, ok := postings.Lookup(codecFlag)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecFlag)
			}
			values, err := readIntegers(inputFor(args))
			if err != nil {
				return err
			}
			if gaps {
				values = toGaps(values)
			}

			buf := make([]byte, 5*len(values)+64)
			n := codec.Codec.Encode(buf, values)
			if n == 0 {
				return fmt.Errorf("%s refused the input (overflow or out-of-range value)", codec.Name)
			}
			if err := os.WriteFile(out, buf[:n], 0o644); err != nil {
				return err
			}
			fmt.Printf("%d integers -> %d bytes (%.2f bits/integer)\n",
				len(values), n, float64(8*n)/float64(len(values)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&codecFlag, "codec", "c", "--compress_vbyte", "codec flag or name (see 'postings codecs')")
	cmd.Flags().StringVarP(&out, "out", "o", "postings.enc", "output file")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "delta-encode the input before compression")
	return cmd
}

func decodeCmd() *cobra.Command {
	var codecFlag string
	var count int
	var gaps bool

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a compressed buffer back to decimal integers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, ok := postings.Lookup(codecFlag)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecFlag)
			}
			if count <= 0 {
				return fmt.Errorf("--count is required: encoded buffers carry no integer count")
			}
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			values := make([]uint32, count+postings.DecodeSlack)
			codec.Codec.Decode(values, count, buf)
			values = values[:count]
			if gaps {
				var sum uint32
				for i, gap := range values {
					sum += gap
					values[i] = sum
				}
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()
			for _, v := range values {
				fmt.Fprintln(w, v)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&codecFlag, "codec", "c", "--compress_vbyte", "codec flag or name (see 'postings codecs')")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of integers to decode")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "treat decoded values as d-gaps and integrate")
	return cmd
}

func queryCmd() *cobra.Command {
	var dir string
	var k int

	cmd := &cobra.Command{
		Use:   "query <term>...",
		Short: "Run terms against a three-file index and print the top k",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index.Load(dir)
			if err != nil {
				return err
			}

			results := query.NewResults(idx.DocumentCount(), k)
			decoder := postings.NewDecoderD1(idx.DocumentCount())
			codec := idx.Codec().Codec

			for _, term := range args {
				meta, ok := idx.Term(term)
				if !ok {
					fmt.Fprintf(os.Stderr, "term %q not in vocabulary\n", term)
					continue
				}
				err := idx.Segments(meta, func(seg index.Segment) error {
					decoder.DecodeAndProcess(codec, seg.Impact, seg.Count, seg.Data, results)
					return nil
				})
				if err != nil {
					return err
				}
			}

			for rank, hit := range results.TopK() {
				fmt.Printf("%d %s %d\n", rank+1, idx.PrimaryKey(hit.DocID), hit.Score)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "index-dir", "d", ".", "index directory")
	cmd.Flags().IntVarP(&k, "k", "k", 10, "number of results")
	return cmd
}

func inputFor(args []string) io.Reader {
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return f
	}
	return os.Stdin
}

func readIntegers(r io.Reader) ([]uint32, error) {
	var values []uint32
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", line, err)
		}
		values = append(values, uint32(v))
	}
	return values, scanner.Err()
}

func toGaps(values []uint32) []uint32 {
	gaps := make([]uint32, len(values))
	prev := uint32(0)
	for i, v := range values {
		gaps[i] = v - prev
		prev = v
	}
	return gaps
}
