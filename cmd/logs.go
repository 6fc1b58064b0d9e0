package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/olimci/cordova-dev/pkg/runner"
)

const ruleWidth = 63

// console prints the banners around external commands, coloured when the
// output is a terminal.
type console struct {
	rich bool

	ruleStyle    lipgloss.Style
	commandStyle lipgloss.Style
	okStyle      lipgloss.Style
	failStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

func newConsole(out io.Writer) *console {
	c := &console{}

	if f, ok := out.(*os.File); ok {
		c.rich = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !c.rich {
		return c
	}

	c.ruleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	c.commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	c.okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	c.failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	c.mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	return c
}

// Header is a runner.Exec header.
func (c *console) Header(w io.Writer, cmd runner.Command, res *runner.Result) {
	if !c.rich {
		runner.DefaultHeader(w, cmd, res)
		return
	}

	if res == nil {
		rule := c.ruleStyle.Render(strings.Repeat("*", ruleWidth))
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%s Execute '%s':\n", c.ruleStyle.Render("*"), c.commandStyle.Render(cmd.String()))
		fmt.Fprintln(w, rule)
		return
	}

	code := c.okStyle.Render(fmt.Sprint(res.ExitCode))
	if res.ExitCode != 0 {
		code = c.failStyle.Render(fmt.Sprint(res.ExitCode))
	}
	fmt.Fprintf(w, "Exit code: %s %s\n", code, c.mutedStyle.Render("("+res.Duration.Round(time.Millisecond).String()+")"))
}
