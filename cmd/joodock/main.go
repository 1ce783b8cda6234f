// Package main provides the joodock command-line client.
package main

func main() {
	Execute()
}
