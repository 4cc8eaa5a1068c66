package flex

// NonFlexGuess names the filesystem an image is guessed to actually be,
// when it fails the FLEX fingerprint check.
type NonFlexGuess string

const (
	GuessOS9      NonFlexGuess = "os9"
	GuessUniFLEX  NonFlexGuess = "uniflex"
	GuessSWTPCDOS NonFlexGuess = "swtpc-fdos"
	GuessUnknown  NonFlexGuess = "unknown"
)

// detectNonFlex runs the fallback fingerprinting checks the reference
// analyser applies to an image once the FLEX label/geometry check has
// already failed. Each test reads a handful of bytes at fixed offsets
// and compares a derived size against the image's actual sector count.
func detectNonFlex(data []byte, totalSectors int) NonFlexGuess {
	if len(data) >= 3 {
		os9Size := (int(data[0])*256+int(data[1]))*256 + int(data[2])
		if os9Size == totalSectors {
			return GuessOS9
		}
	}
	if len(data) >= 0x241 {
		uniflexSize := (int(data[0x212])*256+int(data[0x213])+int(data[0x23F]))*256 +
			int(data[0x214]) + int(data[0x240]) + 1
		if uniflexSize*2 == totalSectors {
			return GuessUniFLEX
		}
	}
	if len(data) == 89600 && len(data) >= 0x1404 &&
		data[0x1400] == '$' && data[0x1401] == 'D' && data[0x1402] == 'O' && data[0x1403] == 'S' {
		return GuessSWTPCDOS
	}
	return GuessUnknown
}
