package main

import "github.com/salarylink/loan-management/cmd"

func main() {
	cmd.Execute()
}
