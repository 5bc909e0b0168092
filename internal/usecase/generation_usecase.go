package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/brand"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/dto"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/prompt"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	writerSystemPrompt = "You are an expert social media content writer who adapts one message to each platform's audience."
	exampleCount       = 3
	postMaxTokens      = 1000
	shortMaxTokens     = 150
)

type GenerationUsecase struct {
	posts    PostStore
	text     TextGenerator
	images   ImageGenerator
	embedder Embedder
	uploader ImageUploader
	voice    *brand.Voice
	imageDir string
	logger   logging.Logger
}

// NewGenerationUsecase wires the generation pipeline. images, embedder and
// uploader are optional: without them posts get a placeholder image, no
// retrieved examples and a local image path only.
func NewGenerationUsecase(posts PostStore, text TextGenerator, images ImageGenerator, embedder Embedder, uploader ImageUploader, voice *brand.Voice, imageDir string, logger logging.Logger) *GenerationUsecase {
	return &GenerationUsecase{
		posts:    posts,
		text:     text,
		images:   images,
		embedder: embedder,
		uploader: uploader,
		voice:    voice,
		imageDir: imageDir,
		logger:   logger,
	}
}

// GeneratePost drafts text, hashtags and an image for one platform and
// stores the result as a draft.
func (uc *GenerationUsecase) GeneratePost(ctx context.Context, req dto.GeneratePostRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, util.NewFormError("topic is required", map[string]string{"topic": "required"})
	}
	spec, err := config.LookupPlatform(req.Platform)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:         uuid.New(),
		UserPrompt: req.Topic,
		Platform:   spec.Name,
		CharLimit:  spec.CharLimit,
		Status:     model.StatusDraft,
	}
	if err := uc.compose(ctx, post, spec, req.Context, req.BrandVoice, req.WithHashtags()); err != nil {
		return nil, err
	}
	if req.WithImage() {
		uc.renderImage(ctx, post, spec, "")
	}

	if err := uc.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	uc.logger.WithFields(logging.Fields{
		"post_id":    post.ID,
		"platform":   post.Platform,
		"char_count": post.CharCount,
	}).Info("post generated")
	return post, nil
}

// GenerateAllPlatforms generates one post per platform in turn. A failing
// platform is reported and does not stop the others.
func (uc *GenerationUsecase) GenerateAllPlatforms(ctx context.Context, req dto.GenerateAllRequest) (*dto.GenerateAllResponse, error) {
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = config.Platforms()
	}

	resp := &dto.GenerateAllResponse{Posts: make(map[string]*model.Post)}
	for _, platform := range platforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := uc.GeneratePost(ctx, dto.GeneratePostRequest{
			Topic:           req.Topic,
			Platform:        platform,
			Context:         req.Context,
			BrandVoice:      req.BrandVoice,
			IncludeHashtags: req.IncludeHashtags,
			GenerateImage:   req.GenerateImage,
		})
		if err != nil {
			uc.logger.WithError(err).WithField("platform", platform).Error("generation failed")
			if resp.Failed == nil {
				resp.Failed = make(map[string]string)
			}
			resp.Failed[platform] = err.Error()
			continue
		}
		resp.Posts[platform] = post
	}
	return resp, nil
}

// RegenerateImage replaces the image of an existing post, reusing its image
// prompt when it has one.
func (uc *GenerationUsecase) RegenerateImage(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	spec, err := config.LookupPlatform(post.Platform)
	if err != nil {
		return nil, err
	}

	uc.renderImage(ctx, post, spec, post.ImagePrompt)
	if err := uc.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// RegeneratePost rewrites a rejected post and returns it to draft so it can
// be evaluated again.
func (uc *GenerationUsecase) RegeneratePost(ctx context.Context, id uuid.UUID, req dto.RegenerateRequest) (*model.Post, error) {
	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status == model.StatusRejected {
		if err := uc.posts.TransitionStatus(ctx, post.ID, model.StatusRejected, model.StatusNeedsRegeneration, nil); err != nil {
			return nil, err
		}
		post.Status = model.StatusNeedsRegeneration
	}
	if err := model.ValidateTransition(post.Status, model.StatusDraft); err != nil {
		return nil, err
	}

	spec, err := config.LookupPlatform(post.Platform)
	if err != nil {
		return nil, err
	}
	if err := uc.compose(ctx, post, spec, req.Context, req.BrandVoice, post.Hashtags != ""); err != nil {
		return nil, err
	}
	uc.renderImage(ctx, post, spec, "")

	post.HumanEdits = ""
	post.ConfidenceScore, post.HistoricalScore, post.FinalScore = 0, 0, 0
	post.Decision, post.Rationale = "", ""
	if err := uc.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	if err := uc.posts.TransitionStatus(ctx, post.ID, model.StatusNeedsRegeneration, model.StatusDraft, nil); err != nil {
		return nil, err
	}
	post.Status = model.StatusDraft
	return post, nil
}

// compose fills the text fields of post: content fitted to the platform
// limit with room for the hashtag line, hashtags and the topic embedding.
func (uc *GenerationUsecase) compose(ctx context.Context, post *model.Post, spec config.PlatformSpec, extraContext, brandVoice string, withHashtags bool) error {
	if brandVoice == "" {
		brandVoice = uc.voice.VoiceFor(spec.Name)
	}
	post.BrandVoice = brandVoice

	examples := uc.examples(ctx, post, spec.Name)
	p, err := prompt.PlatformPost(spec.Name, post.UserPrompt, brandVoice, joinContext(extraContext, examples))
	if err != nil {
		return err
	}

	content, err := uc.text.Generate(ctx, writerSystemPrompt, p, postMaxTokens)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	content = strings.TrimSpace(content)

	// Hashtags the model wrote into the body share the platform cap with
	// the appended tag line.
	var tags []string
	if withHashtags {
		tags = uc.hashtags(ctx, spec, content, post.UserPrompt)
		room := max(spec.MaxHashtags-quality.CountHashtags(content), 0)
		if len(tags) > room {
			tags = tags[:room]
		}
	}
	tagLine := brand.FormatHashtags(tags)

	budget := spec.CharLimit
	if tagLine != "" {
		budget -= utf8.RuneCountInString(tagLine) + 2
	}
	content = uc.fit(ctx, spec, content, brandVoice, budget)
	content = quality.StripHashtags(content, spec.MaxHashtags-len(tags))

	final := content
	if tagLine != "" {
		final = content + "\n\n" + tagLine
	}

	post.GeneratedContent = final
	post.FinalContent = final
	post.Hashtags = strings.Join(tags, " ")
	post.CharCount = utf8.RuneCountInString(final)
	post.CharLimit = spec.CharLimit
	return nil
}

// examples embeds the topic and returns the closest published posts of the
// platform as prompt context. Retrieval is best effort.
func (uc *GenerationUsecase) examples(ctx context.Context, post *model.Post, platform string) string {
	if uc.embedder == nil {
		return ""
	}
	emb, err := uc.embedder.GenerateEmbedding(ctx, post.UserPrompt)
	if err != nil {
		uc.logger.WithError(err).Warn("topic embedding failed, generating without examples")
		return ""
	}
	vec := pgvector.NewVector(emb)
	post.Embedding = &vec

	similar, err := uc.posts.SearchSimilarPublished(ctx, vec, platform, exampleCount)
	if err != nil {
		uc.logger.WithError(err).Warn("example lookup failed")
		return ""
	}
	contents := make([]string, 0, len(similar))
	for _, s := range similar {
		contents = append(contents, postText(&s))
	}
	return prompt.Examples(contents)
}

// fit asks for one rewrite when content is over budget and truncates if the
// rewrite is still too long.
func (uc *GenerationUsecase) fit(ctx context.Context, spec config.PlatformSpec, content, brandVoice string, budget int) string {
	if utf8.RuneCountInString(content) <= budget {
		return content
	}

	shorter, err := uc.text.Generate(ctx, writerSystemPrompt, prompt.Shorten(spec.Name, content, brandVoice, budget), postMaxTokens)
	if err != nil {
		uc.logger.WithError(err).WithField("platform", spec.Name).Warn("shorten request failed, truncating")
	} else if s := strings.TrimSpace(shorter); s != "" {
		content = s
	}
	return truncate(content, budget)
}

func (uc *GenerationUsecase) hashtags(ctx context.Context, spec config.PlatformSpec, content, topic string) []string {
	strategy := uc.voice.HashtagStrategy()
	raw, err := uc.text.Generate(ctx, writerSystemPrompt,
		prompt.Hashtags(spec.Name, content, topic, spec.MaxHashtags, strategy.PreferredCategories, strategy.Avoid),
		shortMaxTokens)
	if err == nil {
		if tags := ParseHashtags(raw, spec.MaxHashtags); len(tags) > 0 {
			return tags
		}
	} else {
		uc.logger.WithError(err).WithField("platform", spec.Name).Warn("hashtag generation failed, using topic hashtags")
	}
	return uc.voice.FallbackHashtags(spec.Name, topic, spec.MaxHashtags)
}

// renderImage writes the post image under imageDir. When generation fails a
// placeholder is written instead so the post still has an image to review.
func (uc *GenerationUsecase) renderImage(ctx context.Context, post *model.Post, spec config.PlatformSpec, imagePrompt string) {
	if imagePrompt == "" {
		imagePrompt = uc.imagePrompt(ctx, post, spec)
	}
	post.ImagePrompt = imagePrompt
	path := util.ImagePath(uc.imageDir, spec.Name, post.ID.String())

	if err := uc.generateImage(ctx, path, imagePrompt, spec); err != nil {
		uc.logger.WithError(err).WithField("post_id", post.ID).Warn("image generation failed, writing placeholder")
		if err := util.WritePlaceholder(path, spec.ImageWidth, spec.ImageHeight, imagePrompt); err != nil {
			uc.logger.WithError(err).WithField("post_id", post.ID).Error("placeholder image failed")
			post.ImagePath, post.ImageURL = "", ""
			return
		}
	}
	post.ImagePath = path
	post.ImageURL = ""

	if uc.uploader != nil {
		url, err := uc.uploader.UploadImage(ctx, post.ID.String(), spec.Name, path)
		if err != nil {
			uc.logger.WithError(err).WithField("post_id", post.ID).Warn("image upload failed")
			return
		}
		post.ImageURL = url
	}
}

func (uc *GenerationUsecase) generateImage(ctx context.Context, path, imagePrompt string, spec config.PlatformSpec) error {
	if uc.images == nil {
		return fmt.Errorf("no image generator configured")
	}
	data, err := uc.images.GenerateImage(ctx, prompt.ImageSpec(imagePrompt, spec), spec.AspectRatio)
	if err != nil {
		return err
	}
	img, err := util.ResizeImage(data, spec.ImageWidth, spec.ImageHeight)
	if err != nil {
		return err
	}
	if err := util.SavePNG(path, img); err != nil {
		return err
	}
	// a stale sidecar would mark a real image as a placeholder
	_ = os.Remove(util.PromptSidecarPath(path))
	return nil
}

func (uc *GenerationUsecase) imagePrompt(ctx context.Context, post *model.Post, spec config.PlatformSpec) string {
	out, err := uc.text.Generate(ctx, writerSystemPrompt, prompt.ImagePrompt(spec.Name, post.FinalContent, post.UserPrompt), shortMaxTokens*2)
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("Professional, vibrant image representing %s for a %s post, no text", post.UserPrompt, spec.Name)
}

// ParseHashtags reads a comma or whitespace separated list, drops '#' and
// punctuation, removes duplicates and keeps at most limit tags.
func ParseHashtags(raw string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[string]bool)
	var tags []string
	for _, f := range fields {
		tag := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				return r
			}
			return -1
		}, f)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
		if len(tags) == limit {
			break
		}
	}
	return tags
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:max(limit, 0)])
	}
	return strings.TrimRightFunc(string(r[:limit-3]), unicode.IsSpace) + "..."
}

func joinContext(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

func postText(p *model.Post) string {
	if p.FinalContent != "" {
		return p.FinalContent
	}
	return p.GeneratedContent
}
