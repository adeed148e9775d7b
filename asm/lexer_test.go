package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexMnemonicAndOperand(t *testing.T) {
	toks, err := Lex("LDA #0x01")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenMnemonic, TokenHash, TokenNumber, TokenEOF}, kinds(toks))
	assert.EqualValues(t, 1, toks[2].Value)
}

func TestLexRecognizesMnemonicCaseInsensitively(t *testing.T) {
	toks, err := Lex("lda #0x01")
	require.NoError(t, err)
	assert.Equal(t, TokenMnemonic, toks[0].Kind)
	assert.Equal(t, "LDA", toks[0].Text)
}

func TestLexNonMnemonicIdentIsIdent(t *testing.T) {
	toks, err := Lex("loop")
	require.NoError(t, err)
	assert.Equal(t, TokenIdent, toks[0].Kind)
	assert.Equal(t, "loop", toks[0].Text)
}

func TestLexTokenizesLineCommentsAndSkipsWhitespace(t *testing.T) {
	toks, err := Lex("  LDA #0x01 // load one\nSTA 0x00")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenMnemonic, TokenHash, TokenNumber, TokenComment,
		TokenMnemonic, TokenNumber, TokenEOF,
	}, kinds(toks))
}

func TestLexTokenizesBlockCommentsSpanningLines(t *testing.T) {
	toks, err := Lex("LDA /* this\nspans lines */ #0x01")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenMnemonic, TokenComment, TokenHash, TokenNumber, TokenEOF,
	}, kinds(toks))
}

func TestLexUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := Lex("LDA /* never closed")
	require.Error(t, err)
	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexLabelAndColon(t *testing.T) {
	toks, err := Lex("loop: INX")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenIdent, TokenColon, TokenMnemonic, TokenEOF,
	}, kinds(toks))
	assert.Equal(t, "loop", toks[0].Text)
}

func TestLexHexLiteral(t *testing.T) {
	toks, err := Lex("0x69")
	require.NoError(t, err)
	assert.EqualValues(t, 0x69, toks[0].Value)
}

func TestLexOctalLiteral(t *testing.T) {
	toks, err := Lex("0o17")
	require.NoError(t, err)
	assert.EqualValues(t, 15, toks[0].Value)
}

func TestLexBinaryLiteral(t *testing.T) {
	toks, err := Lex("0b00001111")
	require.NoError(t, err)
	assert.EqualValues(t, 0x0f, toks[0].Value)
}

func TestLexDecimalLiteral(t *testing.T) {
	toks, err := Lex("255")
	require.NoError(t, err)
	assert.EqualValues(t, 255, toks[0].Value)
}

func TestLexLeadingZeroWithoutRadixIsDecimal(t *testing.T) {
	toks, err := Lex("0")
	require.NoError(t, err)
	assert.EqualValues(t, 0, toks[0].Value)
}

func TestLexIndirectAddressing(t *testing.T) {
	toks, err := Lex("(0x44,X)")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenLParen, TokenNumber, TokenComma, TokenIdent, TokenRParen, TokenEOF,
	}, kinds(toks))
}

func TestLexEmptyRadixLiteralErrors(t *testing.T) {
	_, err := Lex("0x")
	require.Error(t, err)
	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexOutOfRangeLiteralErrors(t *testing.T) {
	_, err := Lex("0x1FFFF")
	require.Error(t, err)
}

func TestLexUnexpectedCharacterErrors(t *testing.T) {
	_, err := Lex("@")
	require.Error(t, err)
}

func TestLexTracksLineAndColumn(t *testing.T) {
	toks, err := Lex("NOP\nNOP")
	require.NoError(t, err)
	require.Len(t, toks, 3) // NOP, NOP, EOF
	assert.Equal(t, 2, toks[1].Span.Start.Line)
	assert.Equal(t, 1, toks[1].Span.Start.Col)
}
