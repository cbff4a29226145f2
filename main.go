package main

import "pipeline/cmd/pipeline"

func main() {
	pipeline.Execute()
}
