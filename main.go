// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/devrc/devrc/cmd/devrc"

func main() {
	cmd.Execute()
}
