package main

import "github.com/nori-kv/wal/cmd/wal-cli/cmd"

func main() {
	cmd.Execute()
}
