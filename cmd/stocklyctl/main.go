// Command stocklyctl is the stockly administration CLI.
package main

func main() {
	Execute()
}
