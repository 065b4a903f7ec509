package main

import "github.com/example/meetingbot/cmd"

func main() {
	cmd.Execute()
}
