package main

import "github.com/Jose-offshrly/zunou-services-sub021/cmd"

func main() {
	cmd.Execute()
}
