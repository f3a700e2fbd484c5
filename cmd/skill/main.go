package main

import (
	"box-skill-whisper/cmd/skill/cmd"
)

//	@title			Box Skill Whisper API
//	@version		1.0
//	@description	Box Skill webhook that transcribes audio and video files and writes transcript, summary, keyword and diagnostics cards back to Box.

//	@contact.name	API Support

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/

//	@schemes	http https

func main() {
	cmd.Execute()
}
