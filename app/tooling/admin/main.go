// This program performs administrative tasks against exported chain
// documents.
package main

import "github.com/jlrastrol/simple-blockchain/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
