// Command qtermsim runs, builds and steps through small quantum circuits on
// an exact statevector simulator.
package main

func main() {
	Execute()
}
