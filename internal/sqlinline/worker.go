package sqlinline

const QClaimGenerationJob = `--sql bf87876d-11fa-49f6-b727-dcfd867777cf
with next_job as (
  select id
  from generation_jobs
  where status = 'pending'
  order by created_at asc
  for update skip locked
  limit 1
),
claimed as (
  update generation_jobs j
  set status = 'processing', updated_at = now()
  where j.id in (select id from next_job)
  returning
    j.id,
    j.business_id,
    j.prompt,
    j.aspect_ratio,
    coalesce(j.style_id, ''),
    coalesce(j.subject_id, ''),
    j.model_tier,
    coalesce(j.strategy, ''),
    j.context_json,
    j.created_at,
    j.updated_at
)
select * from claimed;
`

const QSetJobStage = `--sql ef0296d8-0a3c-4a35-91a1-38e343de29ec
update generation_jobs
set stage = $2::text, updated_at = now()
where id = $1::uuid
  and status = 'processing';
`

const QCompleteJob = `--sql 59b1ac5a-1105-4716-9a95-5005dcdf9ad7
update generation_jobs
set
  status          = 'completed',
  stage           = null,
  error_message   = null,
  result_asset_id = $2::uuid,
  updated_at      = now()
where id = $1::uuid;
`

const QFailJob = `--sql 28ae5763-489c-4b6a-9ce1-416fe5777f9c
update generation_jobs
set
  status        = 'failed',
  stage         = null,
  error_message = $2::text,
  updated_at    = now()
where id = $1::uuid;
`

const QClaimDueSocialPost = `--sql a1f2d3e3-9c71-4348-9f8f-96b1b88165d4
with due_post as (
  select id
  from social_posts
  where status = 'scheduled'
    and scheduled_at <= now()
  order by scheduled_at asc
  for update skip locked
  limit 1
),
claimed as (
  update social_posts p
  set status = 'publishing', updated_at = now()
  where p.id in (select id from due_post)
  returning
    p.id,
    p.business_id,
    coalesce(p.asset_id::text, ''),
    p.caption,
    p.platforms,
    p.scheduled_at,
    p.created_at,
    p.updated_at
)
select * from claimed;
`
