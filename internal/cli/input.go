package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okaimono/sage/internal/engine"
)

// ParseReceiptInput reads pre-extracted receipt lines. Two formats are
// accepted: a JSON document matching engine.ReceiptInput, or plain text
// where each line is "name<TAB>price[<TAB>quantity]" with optional
// "# comment" lines.
func ParseReceiptInput(r io.Reader) (engine.ReceiptInput, error) {
	var input engine.ReceiptInput

	data, err := io.ReadAll(r)
	if err != nil {
		return input, fmt.Errorf("failed to read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &input); err != nil {
			return input, fmt.Errorf("failed to parse receipt JSON: %w", err)
		}
		return input, nil
	}
	return parseTextLines(strings.NewReader(trimmed))
}

func parseTextLines(r io.Reader) (engine.ReceiptInput, error) {
	var input engine.ReceiptInput

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, price, quantity, err := splitLine(line)
		if err != nil {
			return input, fmt.Errorf("line %d: %w", lineNo, err)
		}

		input.Lines = append(input.Lines, engine.ReceiptLine{
			RawName:   name,
			UnitPrice: price,
			Quantity:  quantity,
		})
	}
	if err := scanner.Err(); err != nil {
		return input, fmt.Errorf("failed to scan input: %w", err)
	}
	return input, nil
}

// splitLine separates one text line into name, price and quantity. With tab
// separators the name may contain spaces; with space separators the trailing
// one or two numeric tokens are the price and quantity.
func splitLine(line string) (string, float64, float64, error) {
	fields := strings.Split(line, "\t")
	if len(fields) >= 2 {
		name := strings.TrimSpace(fields[0])
		price, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid price %q", fields[1])
		}
		quantity := 1.0
		if len(fields) >= 3 {
			quantity, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return "", 0, 0, fmt.Errorf("invalid quantity %q", fields[2])
			}
		}
		return name, price, quantity, nil
	}

	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return "", 0, 0, fmt.Errorf("expected \"name<TAB>price[<TAB>quantity]\", got %q", line)
	}

	last, lastErr := strconv.ParseFloat(tokens[len(tokens)-1], 64)
	if lastErr != nil {
		return "", 0, 0, fmt.Errorf("invalid price %q", tokens[len(tokens)-1])
	}
	if len(tokens) >= 3 {
		if price, err := strconv.ParseFloat(tokens[len(tokens)-2], 64); err == nil {
			name := strings.Join(tokens[:len(tokens)-2], " ")
			return name, price, last, nil
		}
	}
	return strings.Join(tokens[:len(tokens)-1], " "), last, 1, nil
}
