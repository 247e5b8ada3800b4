// Seesawctl talks to Adafruit Seesaw boards from a Linux host, either on a
// native I2C bus through periph.io or through an MCP2221A USB bridge.
package main

import "seesaw-go/cmd/seesawctl/cmd"

func main() {
	cmd.Execute()
}
