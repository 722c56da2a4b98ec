package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeWhitespace("  hello   world "))
	assert.Equal(t, "a b", NormalizeWhitespace("a\t\n b"))
	assert.Equal(t, "", NormalizeWhitespace("   "))
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "привет", NormalizeAnswer("  Привет! "))
	assert.Equal(t, "hello world", NormalizeAnswer("Hello   World..."))
	assert.Equal(t, "что такое", NormalizeAnswer("Что такое?"))
}

func TestNormalizeEnglishStripsLeadingArticle(t *testing.T) {
	assert.Equal(t, "cat", NormalizeEnglish("The Cat"))
	assert.Equal(t, "apple", NormalizeEnglish("an apple"))
	assert.Equal(t, "dog", NormalizeEnglish("a dog."))
	// Only a leading article is stripped.
	assert.Equal(t, "in the house", NormalizeEnglish("In the house"))
	assert.Equal(t, "another", NormalizeEnglish("another"))
}

func TestAnswersEqual(t *testing.T) {
	assert.True(t, AnswersEqual("Привет", " привет! "))
	assert.True(t, AnswersEqual("добрый день", "Добрый   день."))
	assert.False(t, AnswersEqual("привет", "пока"))
}

func TestAnswersEqualEnglish(t *testing.T) {
	assert.True(t, AnswersEqualEnglish("the cat", "Cat"))
	assert.True(t, AnswersEqualEnglish("apple", "An apple!"))
	assert.False(t, AnswersEqualEnglish("cat", "cats"))
}
