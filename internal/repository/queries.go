package repository

func upsertUserQuery(u User) (string, []any) {
	return `INSERT INTO users (plugin, subject, email, display_name, given_name, family_name)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (plugin, subject) DO UPDATE SET
	email = EXCLUDED.email,
	display_name = EXCLUDED.display_name,
	given_name = EXCLUDED.given_name,
	family_name = EXCLUDED.family_name,
	updated_at = now()
RETURNING id`, []any{u.Plugin, u.Subject, u.Email, u.DisplayName, u.GivenName, u.FamilyName}
}
