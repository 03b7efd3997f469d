package circuit

// Moments assigns every operation a column ("step") for drawing: an
// operation is placed one step after the latest operation sharing any wire
// in the span it covers. A measurement also covers every wire below its
// qubit, where its result travels down to the classical register. Steps only
// group operations visually; the engine always applies them in list order.
//
// It returns the step of each operation and the number of steps.
func (c *Circuit) Moments() (steps []int, numSteps int) {
	steps = make([]int, len(c.Ops))
	nextFree := make(map[int]int)
	bottom := c.Qubits() - 1

	for i, op := range c.Ops {
		lo, hi := span(op)
		if op.IsMeasurement() {
			hi = max(hi, bottom)
		}
		step := 0
		for q := lo; q <= hi; q++ {
			step = max(step, nextFree[q])
		}
		for q := lo; q <= hi; q++ {
			nextFree[q] = step + 1
		}
		steps[i] = step
		numSteps = max(numSteps, step+1)
	}
	return steps, numSteps
}

// span returns the lowest and highest qubit an operation touches.
func span(op Operation) (lo, hi int) {
	if len(op.Qubits) == 0 {
		return 0, -1
	}
	lo, hi = op.Qubits[0], op.Qubits[0]
	for _, q := range op.Qubits[1:] {
		lo = min(lo, q)
		hi = max(hi, q)
	}
	return lo, hi
}
