package hookchain

import "fmt"

//go:generate go run ./gen -size 8 -out trampolines_gen.go

// Point identifies an interception point of the host.
type Point int

const (
	PointPlanner Point = iota
	PointExecutorStart
	PointExecutorRun
	PointExecutorFinish
	PointExecutorEnd
)

var pointNames = [...]string{
	PointPlanner:        "planner",
	PointExecutorStart:  "executor_start",
	PointExecutorRun:    "executor_run",
	PointExecutorFinish: "executor_finish",
	PointExecutorEnd:    "executor_end",
}

// String returns the snake_case point name.
func (p Point) String() string {
	if p < 0 || int(p) >= len(pointNames) {
		return fmt.Sprintf("Point(%d)", int(p))
	}
	return pointNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Points returns every point in pipeline order.
func Points() []Point {
	return []Point{PointPlanner, PointExecutorStart, PointExecutorRun, PointExecutorFinish, PointExecutorEnd}
}

// ParsePoint looks a point up by name.
func ParsePoint(name string) (Point, error) {
	for i, n := range pointNames {
		if n == name {
			return Point(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hook point %q", name)
}
