package sidecar

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/curddd/q3vm/qvm"
)

// LoadComments reads comments.dat: per-address inline comments and
// before/after blocks, for both code (keyed by instruction index) and
// data (keyed by byte offset, marked by a leading `d` token).
//
// Command lines (`ADDR inline ...`, `ADDR before ...`, `ADDR after
// ...`) are comment-stripped and tokenized like every other sidecar
// format. Body lines inside a before/after block are not: they are
// stored exactly as read, up to but excluding the line consisting of
// exactly `<<<`, which is recognized only in that exact form.
func LoadComments(path string, store *qvm.AnnotationStore) error {
	f, err := openSidecar(path)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(stripComment(scanner.Text()))
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)

		isData := false
		idx := 0
		if fields[0] == "d" {
			isData = true
			idx = 1
		}
		if len(fields) < idx+2 {
			return parseErr(path, lineNo, "expected ADDR inline|before|after ...")
		}

		addr, err := parseHex32(fields[idx])
		if err != nil {
			return parseErr(path, lineNo, "bad address: "+err.Error())
		}
		keyword := fields[idx+1]

		switch keyword {
		case "inline":
			text := strings.Join(fields[idx+2:], " ")
			if isData {
				store.SetDataCommentInline(addr, text)
			} else {
				store.SetCommentInline(addr, text)
			}

		case "before", "after":
			spaceBefore, spaceAfter := 0, 0
			if len(fields) > idx+2 {
				v, err := strconv.Atoi(fields[idx+2])
				if err != nil {
					return parseErr(path, lineNo, "bad spacing value: "+err.Error())
				}
				spaceBefore = v
			}
			if len(fields) > idx+3 {
				v, err := strconv.Atoi(fields[idx+3])
				if err != nil {
					return parseErr(path, lineNo, "bad spacing value: "+err.Error())
				}
				spaceAfter = v
			}

			var body []string
			terminated := false
			for scanner.Scan() {
				lineNo++
				raw := scanner.Text()
				if raw == "<<<" {
					terminated = true
					break
				}
				body = append(body, raw)
			}
			if !terminated {
				return parseErr(path, lineNo, "before/after block missing <<< terminator")
			}

			block := &qvm.CommentBlock{Lines: body, SpaceBefore: spaceBefore, SpaceAfter: spaceAfter}
			switch {
			case keyword == "before" && isData:
				store.SetDataCommentBefore(addr, block)
			case keyword == "before":
				store.SetCommentBefore(addr, block)
			case isData:
				store.SetDataCommentAfter(addr, block)
			default:
				store.SetCommentAfter(addr, block)
			}

		default:
			return parseErr(path, lineNo, "unrecognized comment keyword: "+keyword)
		}
	}
	return errors.Wrapf(scanner.Err(), "reading %s", path)
}
