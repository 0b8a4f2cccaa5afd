package sqlinline

// QSelectPromptTemplate prefers a business-scoped override and falls back to
// the global row (null business_id).
const QSelectPromptTemplate = `--sql 76a4cc1b-8733-4e34-aec1-4605983d9fbe
select body
from prompt_templates
where active
  and (business_id = $1::uuid or business_id is null)
order by business_id nulls last
limit 1;
`

const QUpsertPromptTemplate = `--sql eda9ff78-32ea-4862-a7b5-3318700d79c8
insert into prompt_templates(id, business_id, body, active, created_at, updated_at)
values (gen_random_uuid(), nullif($1::text, '')::uuid, $2::text, $3::boolean, now(), now())
on conflict (business_id) do update set
  body       = excluded.body,
  active     = excluded.active,
  updated_at = now();
`
