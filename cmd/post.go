package cmd

import (
	"fmt"

	"blogg/db"
	"blogg/forms"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

// postCmd lets an operator publish a post from the terminal
func postCmd() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Create a post from the command line",
		Description: `Asks for an author and content and stores the post directly,
bypassing the web form. The same validation rules apply: both
fields must be non-empty after trimming.`,
		Flags: []cli.Flag{
			databaseFlag(),
		},
		Action: func(ctx *cli.Context) error {
			author, err := prompt.New().Ask("Author:").Input("your name")
			if err != nil {
				return err
			}

			content, err := prompt.New().Ask("Content:").Input("what's on your mind?")
			if err != nil {
				return err
			}

			form, err := forms.CleanPost(author, content)
			if err != nil {
				return err
			}

			posts, err := db.NewDB(ctx.String("database"))
			if err != nil {
				return err
			}
			defer posts.Close()

			post, err := posts.CreatePost(ctx.Context, form.Author, form.Content)
			if err != nil {
				return err
			}

			fmt.Printf("Created post %d\n", post.Id)
			return nil
		},
	}
}
