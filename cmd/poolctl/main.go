package main

import "tensorpool/internal/poolctl"

func main() { poolctl.Main() }
