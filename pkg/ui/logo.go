package ui

import "github.com/pterm/pterm"

const LogoASCII = `
   ___ ___  _ __ ___  _ __   ___  ___  ___
  / __/ _ \| '_ ' _ \| '_ \ / _ \/ __|/ _ \
 | (_| (_) | | | | | | |_) | (_) \__ \  __/
  \___\___/|_| |_| |_| .__/ \___/|___/\___|
                     |_|        clean
`

func PrintBanner() {
	pterm.DefaultCenter.Println(pterm.NewRGB(0, 150, 255).Sprint(LogoASCII))
}
