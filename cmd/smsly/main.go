package main

import "github.com/smslycloud/codeweb/cli"

func main() {
	cli.Execute()
}
