package style

import (
	"testing"

	"rblint/internal/cop"
	"rblint/internal/testkit"
)

func TestEncoding(t *testing.T) {
	cops := []cop.Cop{Encoding{}}

	testkit.ExpectOffenses(t, cops, `
# encoding: utf-8
^ Style/Encoding: Unnecessary utf-8 encoding comment.
x = 1
`, testkit.Options{})
	testkit.AssertCorrected(t, cops, "# -*- coding: UTF-8 -*-\nx = 1\n", "x = 1\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "# encoding: ascii-8bit\nx = 1\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "x = 1\n\n# encoding: utf-8\n", testkit.Options{})
}

func TestEncodingKeepsMixedMagicComment(t *testing.T) {
	cops := []cop.Cop{Encoding{}}
	src := "# -*- encoding: utf-8; frozen_string_literal: true -*-\nx = 1\n"

	got := testkit.Offenses(testkit.Run(t, cops, []byte(src), testkit.Options{}))
	if len(got) != 1 {
		t.Fatalf("want one offense, got %v", got)
	}
	testkit.AssertCorrected(t, cops, src, src, testkit.Options{})
}

func TestFrozenStringLiteralCommentMissing(t *testing.T) {
	cops := []cop.Cop{FrozenStringLiteralComment{}}

	testkit.ExpectOffenses(t, cops, `
puts 1
^ Style/FrozenStringLiteralComment: Missing frozen string literal comment.
`, testkit.Options{})
	testkit.AssertCorrected(t, cops, "puts 1\n", "# frozen_string_literal: true\n\nputs 1\n", testkit.Options{})
	testkit.AssertCorrected(t, cops,
		"#!/usr/bin/env ruby\n# encoding: ascii-8bit\nputs 1\n",
		"#!/usr/bin/env ruby\n# encoding: ascii-8bit\n# frozen_string_literal: true\n\nputs 1\n",
		testkit.Options{})
}

func TestFrozenStringLiteralCommentIsUnsafe(t *testing.T) {
	cops := []cop.Cop{FrozenStringLiteralComment{}}
	testkit.AssertCorrected(t, cops, "puts 1\n", "puts 1\n", testkit.Options{Mode: cop.AutocorrectSafe})
}

func TestFrozenStringLiteralCommentPresent(t *testing.T) {
	cops := []cop.Cop{FrozenStringLiteralComment{}}

	testkit.ExpectNoOffenses(t, cops, "# frozen_string_literal: true\n\nputs 1\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "# frozen_string_literal: false\nputs 1\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "# just a comment\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "", testkit.Options{})
}

func TestFrozenStringLiteralCommentStyles(t *testing.T) {
	cops := []cop.Cop{FrozenStringLiteralComment{}}
	never := testkit.Options{Config: map[string]map[string]any{
		"Style/FrozenStringLiteralComment": {"EnforcedStyle": "never"},
	}}
	alwaysTrue := testkit.Options{Config: map[string]map[string]any{
		"Style/FrozenStringLiteralComment": {"EnforcedStyle": "always_true"},
	}}

	testkit.ExpectOffenses(t, cops, `
# frozen_string_literal: true
^ Style/FrozenStringLiteralComment: Unnecessary frozen string literal comment.
puts 1
`, never)
	testkit.AssertCorrected(t, cops, "# frozen_string_literal: true\nputs 1\n", "puts 1\n", never)

	testkit.ExpectOffenses(t, cops, `
# frozen_string_literal: false
^ Style/FrozenStringLiteralComment: Frozen string literal comment must be set to `+"`true`"+`.
puts 1
`, alwaysTrue)
	testkit.AssertCorrected(t, cops,
		"# frozen_string_literal: false\nputs 1\n",
		"# frozen_string_literal: true\nputs 1\n", alwaysTrue)
}

func TestSemicolon(t *testing.T) {
	cops := []cop.Cop{Semicolon{}}

	testkit.ExpectOffenses(t, cops, `
x = 1;
     ^ Style/Semicolon: Do not use semicolons to terminate expressions.
y = 2; z = 3
     ^ Style/Semicolon: Do not use semicolons to terminate expressions.
`, testkit.Options{})
	testkit.AssertCorrected(t, cops, "x = 1;\ny = 2; z = 3\n", "x = 1\ny = 2\nz = 3\n", testkit.Options{})
}

func TestSemicolonIgnoresStringsAndComments(t *testing.T) {
	cops := []cop.Cop{Semicolon{}}

	testkit.ExpectNoOffenses(t, cops, "x = 'a;b'\n# c; d\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "y = 2; z = 3\n", testkit.Options{
		Config: map[string]map[string]any{"Style/Semicolon": {"AllowAsExpressionSeparator": true}},
	})
}

func TestAsciiComments(t *testing.T) {
	cops := []cop.Cop{AsciiComments{}}

	testkit.ExpectOffenses(t, cops, `
# héllo
   ^ Style/AsciiComments: Use only ascii symbols in comments.
x = 'héllo'
`, testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "# © 2024\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "# ü\n", testkit.Options{
		Config: map[string]map[string]any{"Style/AsciiComments": {"AllowedChars": []any{"ü"}}},
	})
}

func TestNilComparisonPredicate(t *testing.T) {
	cops := []cop.Cop{NilComparison{}}

	testkit.ExpectOffenses(t, cops, `
x == nil
  ^^ Style/NilComparison: Prefer the use of the `+"`nil?`"+` predicate.
`, testkit.Options{})
	testkit.AssertCorrected(t, cops, "x == nil\n", "x.nil?\n", testkit.Options{})
	testkit.AssertCorrected(t, cops, "a + b == nil\n", "(a + b).nil?\n", testkit.Options{})
	testkit.ExpectNoOffenses(t, cops, "x.nil?\nx != nil\n", testkit.Options{})
}

func TestNilComparisonComparison(t *testing.T) {
	cops := []cop.Cop{NilComparison{}}
	opts := testkit.Options{Config: map[string]map[string]any{
		"Style/NilComparison": {"EnforcedStyle": "comparison"},
	}}

	testkit.ExpectOffenses(t, cops, `
x.nil?
  ^^^^ Style/NilComparison: Prefer the use of the `+"`==`"+` comparison.
`, opts)
	testkit.AssertCorrected(t, cops, "x.nil?\n", "x == nil\n", opts)
	testkit.ExpectNoOffenses(t, cops, "x == nil\n", opts)
}
