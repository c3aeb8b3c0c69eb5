// Command gen writes trampolines_gen.go: for every interception point, one
// entry function and PoolSize distinct trampolines, each a top-level
// function so that its code address identifies it.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"text/template"
)

type point struct {
	Name   string // chain field on Manager, e.g. executorRun
	Run    string // Manager dispatch method
	Hook   string // host hook type
	Params string
	Args   string
	Host   string // expression yielding the *host.Host
	Result string
}

var points = []point{
	{
		Name:   "planner",
		Run:    "runPlanner",
		Hook:   "host.PlannerHook",
		Params: "parse *host.Query, queryString string, cursorOptions int, params host.ParamList",
		Args:   "parse, queryString, cursorOptions, params",
		Host:   "parse.Host",
		Result: "*host.PlannedStmt",
	},
	{
		Name:   "executorStart",
		Run:    "runExecutorStart",
		Hook:   "host.ExecutorStartHook",
		Params: "qd *host.QueryDesc, eflags int",
		Args:   "qd, eflags",
		Host:   "qd.Host",
	},
	{
		Name:   "executorRun",
		Run:    "runExecutorRun",
		Hook:   "host.ExecutorRunHook",
		Params: "qd *host.QueryDesc, direction host.ScanDirection, count uint64, executeOnce bool",
		Args:   "qd, direction, count, executeOnce",
		Host:   "qd.Host",
	},
	{
		Name:   "executorFinish",
		Run:    "runExecutorFinish",
		Hook:   "host.ExecutorFinishHook",
		Params: "qd *host.QueryDesc",
		Args:   "qd",
		Host:   "qd.Host",
	},
	{
		Name:   "executorEnd",
		Run:    "runExecutorEnd",
		Hook:   "host.ExecutorEndHook",
		Params: "qd *host.QueryDesc",
		Args:   "qd",
		Host:   "qd.Host",
	},
}

var tmpl = template.Must(template.New("trampolines").Funcs(template.FuncMap{
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i
		}
		return s
	},
}).Parse(`// Code generated by gen; DO NOT EDIT.

package hookchain

import "github.com/roach88/pgext/internal/host"

// PoolSize is the number of trampolines generated per point, and so the
// number of extensions that can claim one point.
const PoolSize = {{.Size}}
{{range $p := .Points}}
// {{$p.Name}}Entry dispatches the {{$p.Name}} chain from its first entry.
func {{$p.Name}}Entry({{$p.Params}}){{with $p.Result}} {{.}}{{end}} {
	{{if $p.Result}}return {{end}}For({{$p.Host}}).{{$p.Run}}(0, {{$p.Args}})
}
{{range $i := seq $.Size}}
func {{$p.Name}}Trampoline{{$i}}({{$p.Params}}){{with $p.Result}} {{.}}{{end}} {
	m := For({{$p.Host}})
	{{if $p.Result}}return {{end}}m.{{$p.Run}}(m.{{$p.Name}}.resume({{$i}}), {{$p.Args}})
}
{{end}}
func {{$p.Name}}Pool() [PoolSize]{{$p.Hook}} {
	return [PoolSize]{{$p.Hook}}{
	{{- range $i := seq $.Size}}
		{{$p.Name}}Trampoline{{$i}},
	{{- end}}
	}
}
{{end}}`))

func main() {
	size := flag.Int("size", 8, "trampolines per point")
	out := flag.String("out", "trampolines_gen.go", "output file")
	flag.Parse()

	if err := generate(*size, *out); err != nil {
		fmt.Fprintf(os.Stderr, "gen: %v\n", err)
		os.Exit(1)
	}
}

func generate(size int, out string) error {
	if size < 1 {
		return fmt.Errorf("size must be positive, got %d", size)
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Size   int
		Points []point
	}{size, points})
	if err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	return os.WriteFile(out, src, 0o644)
}
