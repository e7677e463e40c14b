// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parallel

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	for _, nWorkers := range []int{1, 4, 0} {
		a := lo.Range(10000)
		b := make([]int, len(a))
		var setup, teardown, inSteps atomic.Int32
		err := Run(a, TaskFuncs[int]{
			SetupFunc: func() {
				setup.Add(1)
			},
			StepFunc: func(jobId int, item int) error {
				assert.Equal(t, int32(1), setup.Load())
				assert.Equal(t, int32(0), teardown.Load())
				inSteps.Add(1)
				b[jobId] = item
				return nil
			},
			TeardownFunc: func() {
				assert.Equal(t, int32(len(a)), inSteps.Load())
				teardown.Add(1)
			},
		}, nWorkers)
		assert.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, int32(1), setup.Load())
		assert.Equal(t, int32(1), teardown.Load())
	}
}

func TestRunEmpty(t *testing.T) {
	var setup, teardown bool
	err := Run([]string{}, TaskFuncs[string]{
		SetupFunc:    func() { setup = true },
		TeardownFunc: func() { teardown = true },
	}, 8)
	assert.NoError(t, err)
	assert.True(t, setup)
	assert.True(t, teardown)
}

func TestRunSequentialOrder(t *testing.T) {
	var order []int
	err := For(100, 1, func(jobId int) error {
		order = append(order, jobId)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, lo.Range(100), order)
}

func TestRunFail(t *testing.T) {
	// job 1 belongs to the partition {1, 5, 9} of 4 workers
	visited := make([]bool, 12)
	teardown := false
	err := Run(lo.Range(12), TaskFuncs[int]{
		StepFunc: func(jobId int, _ int) error {
			visited[jobId] = true
			if jobId == 1 {
				return fmt.Errorf("error from %d", jobId)
			}
			return nil
		},
		TeardownFunc: func() { teardown = true },
	}, 4)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error from 1")
	assert.True(t, teardown)
	assert.Equal(t, []bool{
		true, true, true, true,
		true, false, true, true,
		true, false, true, true,
	}, visited)
}

func TestRunPanic(t *testing.T) {
	results := make([]int, 100)
	err := For(len(results), 4, func(jobId int) error {
		if jobId == 42 {
			panic("boom")
		}
		results[jobId] = jobId
		return nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	// other partitions are not rolled back
	assert.Equal(t, 41, results[41])
	assert.Equal(t, 43, results[43])
}

func TestNumWorkers(t *testing.T) {
	assert.Equal(t, 4, NumWorkers(100, 4))
	assert.Equal(t, 3, NumWorkers(3, 4))
	assert.Equal(t, 1, NumWorkers(0, 4))
	assert.Equal(t, min(runtime.NumCPU(), 1000), NumWorkers(1000, 0))
}
