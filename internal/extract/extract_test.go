package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestJSONArray(t *testing.T) {
	t.Run("should return the array surrounded by prose", func(t *testing.T) {
		text := "Here is what I found:\n```json\n[{\"name\":\"Eggs\"},{\"name\":\"Milk\"}]\n```\nEnjoy!"

		items, err := JSONArray(text)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.JSONEq(t, `{"name":"Eggs"}`, string(items[0]))
		assert.JSONEq(t, `{"name":"Milk"}`, string(items[1]))
	})

	t.Run("should return an empty array", func(t *testing.T) {
		items, err := JSONArray("nothing here: []")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("should fail with MalformedPayload when no array is present", func(t *testing.T) {
		text := "I could not see any food in this picture."

		_, err := JSONArray(text)
		require.Error(t, err)

		var extractErr *Error
		require.True(t, errors.As(err, &extractErr))
		assert.Equal(t, MalformedPayload, extractErr.Kind)
		assert.Equal(t, text, extractErr.Raw)
	})

	t.Run("should fail when the bracket span is not valid JSON", func(t *testing.T) {
		_, err := JSONArray(`[{"name": "Eggs",]`)

		var extractErr *Error
		require.True(t, errors.As(err, &extractErr))
		assert.Equal(t, MalformedPayload, extractErr.Kind)
	})

	t.Run("should fail on two separate arrays", func(t *testing.T) {
		// The greedy span covers both arrays and the prose between them
		_, err := JSONArray(`[{"name":"a"}] and also [{"name":"b"}]`)
		assert.Error(t, err)
	})
}

func TestDecodeArray(t *testing.T) {
	t.Run("should decode typed values", func(t *testing.T) {
		items, err := DecodeArray[item](`Sure! [{"name":"Tomato"}]`)
		require.NoError(t, err)
		assert.Equal(t, []item{{Name: "Tomato"}}, items)
	})

	t.Run("should fail when elements do not match the type", func(t *testing.T) {
		_, err := DecodeArray[item](`["just a string"]`)

		var extractErr *Error
		require.True(t, errors.As(err, &extractErr))
		assert.Equal(t, MalformedPayload, extractErr.Kind)
	})
}

func TestEmbeddedObjects(t *testing.T) {
	t.Run("should return valid objects in order and skip broken ones", func(t *testing.T) {
		text := "Try these.\n" +
			"RECIPE_START\n{\"name\":\"First\"}\nRECIPE_END\n" +
			"Some prose.\n" +
			"RECIPE_START {not json} RECIPE_END\n" +
			"RECIPE_START\n[1,2]\nRECIPE_END\n" +
			"RECIPE_START{\"name\":\"Second\"}RECIPE_END"

		objs := EmbeddedObjects(text, RecipeStart, RecipeEnd)
		require.Len(t, objs, 2)

		var first, second item
		require.NoError(t, json.Unmarshal(objs[0], &first))
		require.NoError(t, json.Unmarshal(objs[1], &second))
		assert.Equal(t, "First", first.Name)
		assert.Equal(t, "Second", second.Name)
	})

	t.Run("should return nothing for plain text", func(t *testing.T) {
		assert.Empty(t, EmbeddedObjects("Drink more water.", RecipeStart, RecipeEnd))
	})

	t.Run("should ignore an unterminated marker", func(t *testing.T) {
		assert.Empty(t, EmbeddedObjects(`RECIPE_START {"name":"x"}`, RecipeStart, RecipeEnd))
	})
}

func TestDecodeEmbedded(t *testing.T) {
	text := `RECIPE_START {"name":"Soup"} RECIPE_END RECIPE_START {"name": 5} RECIPE_END RECIPE_START oops RECIPE_END`

	items, dropped := DecodeEmbedded[item](text, RecipeStart, RecipeEnd)
	assert.Equal(t, []item{{Name: "Soup"}}, items)
	assert.Equal(t, 2, dropped)
}

func TestStripEmbedded(t *testing.T) {
	text := "Ginger helps digestion.\n\nRECIPE_START\n{\"name\":\"Ginger Tea\"}\nRECIPE_END\n\nDrink it warm."

	stripped := StripEmbedded(text, RecipeStart, RecipeEnd)
	assert.NotContains(t, stripped, "RECIPE_START")
	assert.NotContains(t, stripped, "Ginger Tea")
	assert.Contains(t, stripped, "Ginger helps digestion.")
	assert.Contains(t, stripped, "Drink it warm.")
}
