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
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k1LoW/slidejsx"
	"github.com/k1LoW/slidejsx/config"
	"github.com/k1LoW/slidejsx/jsx"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check slidejsx environment and configuration",
	Long:  `Check slidejsx environment and configuration to ensure everything is set up correctly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Color setup
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)

		allOK := true

		// 1. Check configuration file (optional)
		cmd.Print("🔧 Checking configuration file ... ")

		cfg, err := config.Load(profile)
		if err != nil {
			red.Println("✗ CONFIG ERROR")
			cmd.Printf("   Error loading config: %v\n", err)
			cmd.Println()
			red.Println("⚠️  Setup is incomplete.")
			return nil
		}
		green.Println("✓ OK")
		cmd.Printf("   Configuration directory: %s\n", config.ConfigHomePath())

		// 2. Check render rules and canvas
		cmd.Print("📐 Checking render settings ... ")

		if _, err := slidejsx.New(rendererOptions(cfg, nil)...); err != nil {
			red.Println("✗ INVALID")
			cmd.Printf("   Error: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Rules: %d\n", len(cfg.Rules))
		}

		// 3. Check component name
		cmd.Print("⚛️  Checking component name ... ")

		if cfg.ComponentName == "" {
			green.Println("✓ OK")
			cmd.Printf("   Using default: %s\n", jsx.DefaultComponentName)
		} else if _, err := jsx.New(jsx.WithComponentName(cfg.ComponentName)); err != nil {
			red.Println("✗ INVALID")
			cmd.Printf("   Error: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Component: %s\n", cfg.ComponentName)
		}

		// 4. Check state directory for error reports
		cmd.Print("📂 Checking state directory ... ")

		stateDir := config.StateHomePath()
		if err := checkWritable(stateDir); err != nil {
			yellow.Println("⚠️ NOT WRITABLE")
			cmd.Printf("   Error reports cannot be written to %s: %v\n", stateDir, err)
		} else {
			green.Println("✓ OK")
			cmd.Printf("   State directory: %s\n", stateDir)
		}

		// Final message
		cmd.Println()
		if allOK {
			bold.Printf("🎉 ")
			green.Print("All checks passed! You are ready to use slidejsx")
			bold.Println(".")
			cmd.Println()
			cmd.Println("Try converting a slide:")
			yellow.Println("  slidejsx convert slide.json -o Slide.jsx --css Slide.css")
		} else {
			red.Println("⚠️  Setup is incomplete.")
			cmd.Println("\nPlease fix the issues above to use slidejsx properly.")
		}

		return nil
	},
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
