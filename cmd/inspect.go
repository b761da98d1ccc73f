/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/k1LoW/slidejsx/loader"
	"github.com/k1LoW/slidejsx/schema"
	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [INPUT]",
	Short: "inspect normalized slide items",
	Long:  `inspect normalized slide items, including dead and invalid ones.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, stop, err := newLogger(true)
		if err != nil {
			return err
		}
		defer stop()
		l, err := loader.New(loader.WithLogger(logger), loader.WithStdin(cmd.InOrStdin()))
		if err != nil {
			return err
		}
		src, err := l.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		items, err := src.Parse()
		if err != nil {
			return err
		}
		if inspectJSON {
			b, err := items.MarshalJSON()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		printItems(cmd.OutOrStdout(), items)
		return nil
	},
}

func printItems(w io.Writer, items schema.Items) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	for _, i := range items {
		pos := fmt.Sprintf("%3d", i.Ordinal+1)
		switch {
		case i.IsDead():
			_, _ = fmt.Fprintf(w, "%s %s\n", pos, gray("(dead) "+*i.Info))
			continue
		case i.IsDiagnostic():
			_, _ = fmt.Fprintf(w, "%s %s\n", pos, red("(invalid) "+*i.Info))
			continue
		}
		id := "-"
		if i.ShapeID != nil {
			id = strconv.Itoa(*i.ShapeID)
		}
		kind := i.SlideItemType
		if i.AutoShapeType != "" {
			kind += "/" + i.AutoShapeType
		}
		_, _ = fmt.Fprintf(w, "%s %-4s %-24s %gx%g @ %g,%g", pos, id, kind, i.Width, i.Height, i.Left, i.Top)
		if text := itemText(i); text != "" {
			_, _ = fmt.Fprintf(w, " %q", text)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func itemText(i *schema.SlideItem) string {
	var texts []string
	for _, p := range i.Paragraphs() {
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	text := strings.Join(texts, " / ")
	if r := []rune(text); len(r) > 40 {
		text = string(r[:40]) + "..."
	}
	return text
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectJSON, "json", "", false, "print normalized items as JSON")
}
