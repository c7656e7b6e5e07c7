/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/snsrecords/cmd/snsrec/cmd"

func main() {
	cmd.Execute()
}
