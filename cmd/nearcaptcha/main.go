package main

import "github.com/k1LoW/nearcaptcha/cmd"

func main() {
	cmd.Execute()
}
