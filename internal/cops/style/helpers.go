package style

import (
	"rblint/internal/correction"
	"rblint/internal/source"
)

func deleteLine(src *source.File, line int) correction.Correction {
	return correction.DeleteLine(src, line)
}
