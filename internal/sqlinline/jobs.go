package sqlinline

// QEnqueueGenerationJob debits the business's credit balance and inserts the
// job row in one statement. Concurrent submissions serialize on the business
// row lock taken by the debit update; an insufficient balance produces zero
// rows and no side effects.
const QEnqueueGenerationJob = `--sql c4ff8831-4c08-4b9f-985b-235c0e801435
with input as (
  select
    gen_random_uuid()                as job_id,
    $1::uuid                         as business_id,
    $2::text                         as prompt,
    $3::text                         as aspect_ratio,
    nullif($4::text, '')             as style_id,
    nullif($5::text, '')             as subject_id,
    $6::text                         as model_tier,
    nullif($7::text, '')             as strategy,
    coalesce($8::jsonb, '{}'::jsonb) as context_json,
    $9::int                          as cost
),
debit as (
  update businesses b
  set credit_balance = b.credit_balance - (select cost from input),
      updated_at     = now()
  where b.id = (select business_id from input)
    and b.credit_balance >= (select cost from input)
  returning b.id
),
ledger as (
  insert into credit_ledger(id, business_id, delta, reason, job_id, created_at)
  select gen_random_uuid(), business_id, -cost, 'generation', job_id, now()
  from input
  where exists (select 1 from debit)
),
job as (
  insert into generation_jobs(
    id, business_id, status, prompt, aspect_ratio, style_id, subject_id,
    model_tier, strategy, context_json, created_at, updated_at
  )
  select
    job_id, business_id, 'pending', prompt, aspect_ratio, style_id,
    subject_id, model_tier, strategy, context_json, now(), now()
  from input
  where exists (select 1 from debit)
  returning id, status, created_at, updated_at
)
select id, status, created_at, updated_at from job;
`

const QSelectJobByID = `--sql 67552399-18b6-4e1f-a6e7-10faf5927452
select
  id,
  business_id,
  status,
  coalesce(stage, ''),
  prompt,
  aspect_ratio,
  coalesce(style_id, ''),
  coalesce(subject_id, ''),
  model_tier,
  coalesce(strategy, ''),
  context_json,
  coalesce(result_asset_id::text, ''),
  coalesce(error_message, ''),
  created_at,
  updated_at
from generation_jobs
where id = $1::uuid
limit 1;
`

const QListActiveJobsByBusiness = `--sql d2832e78-a1bb-4252-ac80-a826c242310a
select
  id,
  business_id,
  status,
  coalesce(stage, ''),
  prompt,
  aspect_ratio,
  coalesce(style_id, ''),
  coalesce(subject_id, ''),
  model_tier,
  coalesce(strategy, ''),
  context_json,
  coalesce(result_asset_id::text, ''),
  coalesce(error_message, ''),
  created_at,
  updated_at
from generation_jobs
where business_id = $1::uuid
  and status in ('pending', 'processing')
order by created_at desc;
`

const QDeleteJob = `--sql 754b5f17-3ee8-4514-be10-f88c29564f7b
delete from generation_jobs
where id = $1::uuid;
`
