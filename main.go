package main

import "github.com/Builder-Lawyers/tenant-onboarding/cmd"

func main() {
	cmd.Execute()
}
