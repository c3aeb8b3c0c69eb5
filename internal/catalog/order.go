package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Cycle is a dependency loop between plugins.
type Cycle struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// dependencyGraph maps plugin name → names it depends on.
type dependencyGraph map[string][]string

func buildDependencyGraph(plugins []Plugin) dependencyGraph {
	graph := make(dependencyGraph, len(plugins))
	for _, p := range plugins {
		graph[p.Name] = append([]string{}, p.Dependencies...)
	}
	return graph
}

// findCycles reports every strongly connected component with more than one
// plugin. Self-dependencies are rejected earlier by check.
func findCycles(plugins []Plugin) []Cycle {
	graph := buildDependencyGraph(plugins)

	var cycles []Cycle
	for _, scc := range tarjanSCC(graph, plugins) {
		if len(scc) < 2 {
			continue
		}
		path := cyclePath(scc, graph)
		cycles = append(cycles, Cycle{
			Path:    path,
			Message: "dependency cycle: " + strings.Join(path, " -> "),
		})
	}
	return cycles
}

// tarjanSCC visits plugins in declaration order so results are stable.
func tarjanSCC(graph dependencyGraph, plugins []Plugin) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, p := range plugins {
		if _, visited := indices[p.Name]; !visited {
			strongConnect(p.Name)
		}
	}
	return sccs
}

// cyclePath walks the component from its alphabetically first member
// until it returns there.
func cyclePath(scc []string, graph dependencyGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}
	sorted := append([]string{}, scc...)
	sort.Strings(sorted)

	start := sorted[0]
	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		next := ""
		for _, n := range graph[current] {
			if members[n] && (n == start || !visited[n]) {
				next = n
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}
	return path
}

// Resolve returns the named plugins plus their transitive dependencies,
// dependencies first. Independent plugins keep the order they were asked
// for in. With no names, the whole catalog is resolved.
func (c *Catalog) Resolve(names ...string) ([]Plugin, error) {
	if len(names) == 0 {
		names = c.Names()
	}

	var (
		order    []Plugin
		done     = make(map[string]bool)
		visiting = make(map[string]bool)
	)

	var visit func(name string, trail []string) error
	visit = func(name string, trail []string) error {
		if done[name] {
			return nil
		}
		p, ok := c.Lookup(name)
		if !ok {
			return fmt.Errorf("plugin %q not found in catalog", name)
		}
		if visiting[name] {
			return &CompileError{
				Field:   "plugin." + name + ".dependencies",
				Message: "dependency cycle: " + strings.Join(append(trail, name), " -> "),
				Pos:     p.Pos,
			}
		}
		visiting[name] = true
		for _, dep := range p.Dependencies {
			if err := visit(dep, append(trail, name)); err != nil {
				return err
			}
		}
		visiting[name] = false
		done[name] = true
		order = append(order, p)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// SessionOrder arranges resolved plugins the way a server would see them:
// shared_preload_libraries at startup first, then session LOADs. Plugins
// that are only installed (CREATE EXTENSION) carry no hooks and are left out.
func SessionOrder(plugins []Plugin) []Plugin {
	var preload, load []Plugin
	for _, p := range plugins {
		switch {
		case p.InstallStrategy.Preloads():
			preload = append(preload, p)
		case p.InstallStrategy.SessionLoads():
			load = append(load, p)
		}
	}
	return append(preload, load...)
}

// SharedPreloadLibraries lists the names that go into
// shared_preload_libraries, in order.
func SharedPreloadLibraries(plugins []Plugin) []string {
	var libs []string
	for _, p := range plugins {
		if p.InstallStrategy.Preloads() {
			libs = append(libs, p.Name)
		}
	}
	return libs
}
