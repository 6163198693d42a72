package main

import (
	"fmt"
	"strings"

	"cube-field/core"
	"cube-field/scene"
)

// meshCounter is the part of the renderer the overlay reports on.
type meshCounter interface {
	MeshCount() int
}

// overlay holds the performance lines shown in the window title.
type overlay struct {
	lines []string
}

func (o *overlay) addLine(format string, args ...interface{}) {
	o.lines = append(o.lines, fmt.Sprintf(format, args...))
}

func (o *overlay) update(stats core.FrameSummary, list scene.DrawList, gpu meshCounter, paused bool) {
	o.lines = o.lines[:0]
	o.addLine("%s", stats)
	o.addLine("drawn %d  culled %d  batches %d  meshes %d", list.Instances, list.Culled, len(list.Batches), gpu.MeshCount())
	if paused {
		o.addLine("paused")
	}
}

func (o *overlay) title() string {
	return strings.Join(o.lines, " | ")
}
