/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/TaskQuest/cmd"
	"github.com/josephgoksu/TaskQuest/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
