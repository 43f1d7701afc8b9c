package validation

// PostCreate is the body accepted by post creation.
var PostCreate = NewSchema(
	Field{Key: "title", Required: true, Rules: "min=1,max=255"},
	Field{Key: "content", Required: true, Rules: "min=1"},
	Field{Key: "imageUrl", Required: true, Rules: "min=1,max=2048," + imageURLRuleName},
	Field{Key: "category", Required: true, Rules: "min=1"},
)

// PostUpdate accepts the same fields as PostCreate, all optional.
var PostUpdate = PostCreate.Optional()
