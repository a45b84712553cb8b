package scene

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
)

// stageChunk is the smallest number of objects handed to one staging task.
const stageChunk = 64

// stage fills s.uniforms with one ObjectUniform per object in objects, in the same order.
// Objects are synced before staging, so every task only reads object state.
//
// Parameters:
//   - objects: the objects about to be drawn
func (s *scene) stage(objects []game_object.GameObject) {
	if cap(s.uniforms) < len(objects) {
		s.uniforms = make([]renderer.ObjectUniform, len(objects))
	}
	s.uniforms = s.uniforms[:len(objects)]

	if s.computeWorkers <= 1 || len(objects) <= stageChunk {
		stageRange(objects, s.uniforms)
		return
	}

	chunk := max(stageChunk, (len(objects)+s.computeWorkers-1)/s.computeWorkers)

	// The pool's Wait blocks until workers idle out, so a WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(objects); start += chunk {
		end := min(start+chunk, len(objects))
		wg.Add(1)
		objs, out := objects[start:end], s.uniforms[start:end]
		s.stagePool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				stageRange(objs, out)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

func stageRange(objects []game_object.GameObject, out []renderer.ObjectUniform) {
	for i, obj := range objects {
		out[i] = renderer.NewObjectUniform(obj.World(), obj.RotationOnly(), obj.Material().Color())
	}
}
