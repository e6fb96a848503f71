// SPDX-License-Identifier: MPL-2.0

package main

import cmd "depot-cli/cmd/depot"

func main() {
	cmd.Execute()
}
